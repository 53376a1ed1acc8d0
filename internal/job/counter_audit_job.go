package job

import (
	"context"
	log "log/slog"
	"time"

	"realdeal/internal/pkg/cache"
	"realdeal/internal/repository"
)

// CounterAuditJob 用互动行记录修正帖子/评论上的冗余计数。
// 计数列平时靠事务内的相对增减维护，这里兜底收敛偶发漂移。
type CounterAuditJob struct {
	reactionRepo repository.ReactionRepo
	cache        *cache.Coordinator
}

func NewCounterAuditJob(reactionRepo repository.ReactionRepo, coordinator *cache.Coordinator) *CounterAuditJob {
	return &CounterAuditJob{
		reactionRepo: reactionRepo,
		cache:        coordinator,
	}
}

func (s *CounterAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("start counter audit job")

	fixed, err := s.reactionRepo.ReconcileCounts(ctx)
	if err != nil {
		log.Error("counter audit job failed", "err", err)
		return
	}
	if fixed == 0 {
		log.Info("counter audit job finished, no drift found")
		return
	}

	// 有修正就把带计数的缓存清掉，避免继续供旧值
	s.cache.EvictAll(ctx, cache.PostsContent, cache.SinglePost,
		cache.CommentContent, cache.AllComments)
	log.Info("counter audit job finished", "fixed_rows", fixed)
}
