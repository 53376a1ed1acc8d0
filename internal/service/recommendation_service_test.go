package service

import (
	"context"
	"testing"
	"time"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makePosts(n int) []*model.Post {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*model.Post, 0, n)
	// 下标越小创建越晚，模拟时间倒序的帖子页
	for i := 0; i < n; i++ {
		posts = append(posts, &model.Post{
			ID:        uuid.New(),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return posts
}

func ids(posts []*model.Post) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestRankIdentityWithoutViewer(t *testing.T) {
	posts := makePosts(3)
	svc := NewRecommendationService(&fakeGenreLookup{})

	got := svc.Rank(context.Background(), posts, "", 0)
	assert.Equal(t, ids(posts), ids(got))
}

func TestRankIdentityWithoutPreferences(t *testing.T) {
	posts := makePosts(3)
	svc := NewRecommendationService(&fakeGenreLookup{
		userGenres: map[string][]int{},
		postGenres: map[uuid.UUID][]int{posts[0].ID: {1}},
	})

	got := svc.Rank(context.Background(), posts, "viewer", 0)
	assert.Equal(t, ids(posts), ids(got))
}

func TestRankIdentityEmptyPosts(t *testing.T) {
	svc := NewRecommendationService(&fakeGenreLookup{})
	got := svc.Rank(context.Background(), nil, "viewer", 0)
	assert.Empty(t, got)
}

func TestRankNewViewerPrefersMatchingGenres(t *testing.T) {
	posts := makePosts(3)
	lookup := &fakeGenreLookup{
		userGenres: map[string][]int{"viewer": {1}},
		postGenres: map[uuid.UUID][]int{
			posts[0].ID: {2}, // 最新但不匹配
			posts[1].ID: {2},
			posts[2].ID: {1}, // 最旧但完全匹配
		},
	}
	svc := NewRecommendationService(lookup)

	// postsViewed=0，decay=0：匹配帖权重1，不匹配0.1
	got := svc.Rank(context.Background(), posts, "viewer", 0)
	assert.Equal(t, posts[2].ID, got[0].ID)
	// 不匹配的两帖之间保持时间倒序
	assert.Equal(t, posts[0].ID, got[1].ID)
	assert.Equal(t, posts[1].ID, got[2].ID)
}

func TestRankSaturatedViewerFallsBackToRecency(t *testing.T) {
	posts := makePosts(3)
	lookup := &fakeGenreLookup{
		userGenres: map[string][]int{"viewer": {1}},
		postGenres: map[uuid.UUID][]int{
			posts[0].ID: {2},
			posts[2].ID: {1},
		},
	}
	svc := NewRecommendationService(lookup)

	// 浏览量饱和（≥50），decay=1：所有帖权重都是1，回归时间序
	got := svc.Rank(context.Background(), posts, "viewer", 50)
	assert.Equal(t, ids(posts), ids(got))
}

func TestRankPartialDecayInterpolates(t *testing.T) {
	posts := makePosts(2)
	lookup := &fakeGenreLookup{
		userGenres: map[string][]int{"viewer": {1, 2}},
		postGenres: map[uuid.UUID][]int{
			posts[0].ID: {3},    // 不匹配: 0.1+0.9*0.5 = 0.55
			posts[1].ID: {1, 2}, // 全匹配: 1*(1-0.5)+0.5 = 1
		},
	}
	svc := NewRecommendationService(lookup)

	got := svc.Rank(context.Background(), posts, "viewer", 25)
	assert.Equal(t, posts[1].ID, got[0].ID)
	assert.Equal(t, posts[0].ID, got[1].ID)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	posts := makePosts(2)
	original := ids(posts)
	lookup := &fakeGenreLookup{
		userGenres: map[string][]int{"viewer": {1}},
		postGenres: map[uuid.UUID][]int{posts[1].ID: {1}},
	}
	svc := NewRecommendationService(lookup)

	_ = svc.Rank(context.Background(), posts, "viewer", 0)
	assert.Equal(t, original, ids(posts))
}
