package service

import (
	"context"
	log "log/slog"
	"sort"

	"realdeal/internal/model"
	"realdeal/internal/pkg/consts"

	"github.com/google/uuid"
)

// GenreLookup 排序所需的题材查询，由 GenreService 提供（带缓存）
type GenreLookup interface {
	GetUserGenreIDs(ctx context.Context, userID string) ([]int, error)
	GetGenreIDsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]int, error)
}

// RecommendationService 按观看者偏好对帖子列表重新排序。
// 浏览得越多，个性化权重越高；完全没有偏好时保持原序。
type RecommendationService interface {
	Rank(ctx context.Context, posts []*model.Post, viewerID string, postsViewed int) []*model.Post
}

type recommendationServiceImpl struct {
	genres GenreLookup
}

func NewRecommendationService(genres GenreLookup) RecommendationService {
	return &recommendationServiceImpl{genres: genres}
}

func (s *recommendationServiceImpl) Rank(ctx context.Context, posts []*model.Post, viewerID string, postsViewed int) []*model.Post {
	if len(posts) == 0 || viewerID == "" {
		return posts
	}

	preferred, err := s.genres.GetUserGenreIDs(ctx, viewerID)
	if err != nil {
		log.WarnContext(ctx, "读取用户偏好失败，跳过个性化排序", "viewerID", viewerID, "err", err)
		return posts
	}
	if len(preferred) == 0 {
		return posts
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}
	genresByPost, err := s.genres.GetGenreIDsByPostIDs(ctx, postIDs)
	if err != nil {
		log.WarnContext(ctx, "读取帖子题材失败，跳过个性化排序", "err", err)
		return posts
	}

	decay := float64(postsViewed) / float64(consts.RecommendSaturation)
	if decay > 1 {
		decay = 1
	}

	preferredSet := make(map[int]struct{}, len(preferred))
	for _, id := range preferred {
		preferredSet[id] = struct{}{}
	}

	weights := make(map[uuid.UUID]float64, len(posts))
	for _, post := range posts {
		weights[post.ID] = rankWeight(genresByPost[post.ID], preferredSet, len(preferred), decay)
	}

	ranked := make([]*model.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := weights[ranked[i].ID], weights[ranked[j].ID]
		if wi != wj {
			return wi > wj
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked
}

// rankWeight 未命中题材给保底权重并随 decay 回升，命中按比例与 decay 插值，
// 使新用户先看到题材匹配的内容、老用户逐渐回归时间序
func rankWeight(postGenres []int, preferred map[int]struct{}, preferredTotal int, decay float64) float64 {
	overlap := 0
	for _, gid := range postGenres {
		if _, ok := preferred[gid]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return consts.RecommendBaseWeight + (1-consts.RecommendBaseWeight)*decay
	}
	matchRatio := float64(overlap) / float64(preferredTotal)
	return matchRatio*(1-decay) + decay
}
