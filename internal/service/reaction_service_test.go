package service

import (
	"context"
	"testing"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reactionFixture struct {
	svc          ReactionService
	reactionRepo *fakeReactionRepo
	expSvc       *fakeExpService
	postID       uuid.UUID
	commentID    uuid.UUID
}

func newReactionFixture() *reactionFixture {
	postID := uuid.New()
	commentID := uuid.New()
	reactionRepo := newFakeReactionRepo()
	expSvc := newFakeExpService()
	postRepo := newFakePostRepo(&model.Post{ID: postID, UserID: "author"})
	commentRepo := newFakeCommentRepo(&model.Comment{ID: commentID, PostID: postID, UserID: "commenter"})
	svc := NewReactionService(reactionRepo, postRepo, commentRepo, expSvc, newTestCache())
	return &reactionFixture{
		svc:          svc,
		reactionRepo: reactionRepo,
		expSvc:       expSvc,
		postID:       postID,
		commentID:    commentID,
	}
}

func TestToggleLikeOnThenOff(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()

	got, err := f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)
	assert.True(t, got.State)
	assert.Equal(t, int64(1), got.Count)

	got, err = f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)
	assert.False(t, got.State)
	assert.Equal(t, int64(0), got.Count)

	// 点赞再取消，经验净变化为0
	assert.Equal(t, 0, f.expSvc.totalFor("author"))
}

func TestToggleStarIndependentOfLike(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)
	got, err := f.svc.Toggle(ctx, EntityPost, ReactionStar, f.postID, "viewer")
	require.NoError(t, err)
	assert.True(t, got.State)
	assert.Equal(t, int64(1), got.Count)

	liked, err := f.svc.HasLikedPost(ctx, f.postID, "viewer")
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleAwardsOwnerExp(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)
	assert.Equal(t, 2, f.expSvc.totalFor("author"))

	_, err = f.svc.Toggle(ctx, EntityComment, ReactionLike, f.commentID, "viewer")
	require.NoError(t, err)
	assert.Equal(t, 2, f.expSvc.totalFor("commenter"))
}

func TestToggleSelfReactionNoExp(t *testing.T) {
	f := newReactionFixture()

	got, err := f.svc.Toggle(context.Background(), EntityPost, ReactionLike, f.postID, "author")
	require.NoError(t, err)
	assert.True(t, got.State)
	assert.Equal(t, 0, f.expSvc.totalFor("author"))
}

func TestToggleStarOnCommentRejected(t *testing.T) {
	f := newReactionFixture()

	_, err := f.svc.Toggle(context.Background(), EntityComment, ReactionStar, f.commentID, "viewer")
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestToggleUnknownEntity(t *testing.T) {
	f := newReactionFixture()

	_, err := f.svc.Toggle(context.Background(), EntityPost, ReactionLike, uuid.New(), "viewer")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.svc.Toggle(context.Background(), EntityComment, ReactionLike, uuid.New(), "viewer")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestToggleRetriesOnceOnDuplicateInsert(t *testing.T) {
	f := newReactionFixture()
	// 第一次插入撞唯一键，重读状态后的第二次尝试成功
	f.reactionRepo.createErrs = []error{duplicateKeyError()}

	got, err := f.svc.Toggle(context.Background(), EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)
	assert.True(t, got.State)
}

func TestToggleConflictAfterRetry(t *testing.T) {
	f := newReactionFixture()
	f.reactionRepo.createErrs = []error{duplicateKeyError(), duplicateKeyError()}

	_, err := f.svc.Toggle(context.Background(), EntityPost, ReactionLike, f.postID, "viewer")
	assert.ErrorIs(t, err, ErrReactionConflict)
}

func TestToggleConflictWhenDeleteLosesRace(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)

	// 两次删除都扑空（并发方先删），且期间状态被重建，最终报冲突
	f.reactionRepo.removeFail = 2
	_, err = f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	assert.ErrorIs(t, err, ErrReactionConflict)
}

func TestHasLikedPostStatusEvictedAfterToggle(t *testing.T) {
	f := newReactionFixture()
	ctx := context.Background()

	liked, err := f.svc.HasLikedPost(ctx, f.postID, "viewer")
	require.NoError(t, err)
	assert.False(t, liked)

	// 状态已进缓存，翻转必须驱逐后再读到新值
	_, err = f.svc.Toggle(ctx, EntityPost, ReactionLike, f.postID, "viewer")
	require.NoError(t, err)

	liked, err = f.svc.HasLikedPost(ctx, f.postID, "viewer")
	require.NoError(t, err)
	assert.True(t, liked)
}
