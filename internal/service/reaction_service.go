package service

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/pkg/consts"
	"realdeal/internal/repository"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// EntityKind 互动对象类别
type EntityKind int

const (
	EntityPost EntityKind = iota + 1
	EntityComment
)

// ReactionKind 互动类别
type ReactionKind int

const (
	ReactionLike ReactionKind = iota + 1
	ReactionStar
)

// ReactionService 点赞/收藏的幂等切换与状态查询
type ReactionService interface {
	// Toggle 翻转互动状态，返回翻转后的状态与对象的最新计数
	Toggle(ctx context.Context, entity EntityKind, reaction ReactionKind, entityID uuid.UUID, userID string) (*dto.ToggleResultDTO, error)
	HasLikedPost(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	HasStarredPost(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	HasLikedComment(ctx context.Context, commentID uuid.UUID, userID string) (bool, error)
}

type reactionServiceImpl struct {
	reactionRepo repository.ReactionRepo
	postRepo     repository.PostRepo
	commentRepo  repository.CommentRepo
	expService   ExperienceService
	cache        *cache.Coordinator
}

func NewReactionService(
	reactionRepo repository.ReactionRepo,
	postRepo repository.PostRepo,
	commentRepo repository.CommentRepo,
	expService ExperienceService,
	coordinator *cache.Coordinator,
) ReactionService {
	return &reactionServiceImpl{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		expService:   expService,
		cache:        coordinator,
	}
}

// toggleOps 一种互动的底层操作集合
type toggleOps struct {
	exists func(ctx context.Context) (bool, error)
	create func(ctx context.Context) error
	remove func(ctx context.Context) (bool, error)
	count  func(ctx context.Context) (int64, error)
}

func (s *reactionServiceImpl) Toggle(ctx context.Context, entity EntityKind, reaction ReactionKind, entityID uuid.UUID, userID string) (*dto.ToggleResultDTO, error) {
	if entity == EntityComment && reaction == ReactionStar {
		return nil, ErrParamInvalid
	}

	ownerID, err := s.resolveOwner(ctx, entity, entityID)
	if err != nil {
		return nil, err
	}

	ops := s.opsFor(entity, reaction, entityID, userID)

	// 并发下另一请求可能先完成同方向的翻转：插入撞唯一键或删除影响0行。
	// 重读状态再试一次，仍然失败则报冲突。
	var state bool
	toggled := false
	for attempt := 0; attempt < 2 && !toggled; attempt++ {
		exists, err := ops.exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			err = ops.create(ctx)
			if err != nil {
				if isDuplicateError(err) {
					continue
				}
				return nil, err
			}
			state, toggled = true, true
		} else {
			removed, err := ops.remove(ctx)
			if err != nil {
				return nil, err
			}
			if !removed {
				continue
			}
			state, toggled = false, true
		}
	}
	if !toggled {
		return nil, ErrReactionConflict
	}

	s.awardExp(ctx, ownerID, userID, state)
	s.evictAfterToggle(ctx, entity, reaction, entityID, userID)

	count, err := ops.count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResultDTO{State: state, Count: count}, nil
}

func (s *reactionServiceImpl) HasLikedPost(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.PostLikes, statusKey(postID, userID), func(ctx context.Context) (bool, error) {
		return s.reactionRepo.CheckPostLikeExists(ctx, postID, userID)
	})
}

func (s *reactionServiceImpl) HasStarredPost(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.PostStars, statusKey(postID, userID), func(ctx context.Context) (bool, error) {
		return s.reactionRepo.CheckPostStarExists(ctx, postID, userID)
	})
}

func (s *reactionServiceImpl) HasLikedComment(ctx context.Context, commentID uuid.UUID, userID string) (bool, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.CommentLikes, statusKey(commentID, userID), func(ctx context.Context) (bool, error) {
		return s.reactionRepo.CheckCommentLikeExists(ctx, commentID, userID)
	})
}

func (s *reactionServiceImpl) resolveOwner(ctx context.Context, entity EntityKind, entityID uuid.UUID) (string, error) {
	switch entity {
	case EntityPost:
		post, err := s.postRepo.GetPost(ctx, entityID)
		if err != nil {
			return "", err
		}
		if post == nil {
			return "", ErrPostNotFound
		}
		return post.UserID, nil
	case EntityComment:
		comment, err := s.commentRepo.GetCommentByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if comment == nil {
			return "", ErrCommentNotFound
		}
		return comment.UserID, nil
	default:
		return "", ErrParamInvalid
	}
}

func (s *reactionServiceImpl) opsFor(entity EntityKind, reaction ReactionKind, entityID uuid.UUID, userID string) toggleOps {
	if entity == EntityComment {
		return toggleOps{
			exists: func(ctx context.Context) (bool, error) {
				return s.reactionRepo.CheckCommentLikeExists(ctx, entityID, userID)
			},
			create: func(ctx context.Context) error {
				return s.reactionRepo.CreateCommentLike(ctx, entityID, userID)
			},
			remove: func(ctx context.Context) (bool, error) {
				return s.reactionRepo.DeleteCommentLike(ctx, entityID, userID)
			},
			count: func(ctx context.Context) (int64, error) {
				return s.reactionRepo.GetCommentLikesCount(ctx, entityID)
			},
		}
	}
	if reaction == ReactionStar {
		return toggleOps{
			exists: func(ctx context.Context) (bool, error) {
				return s.reactionRepo.CheckPostStarExists(ctx, entityID, userID)
			},
			create: func(ctx context.Context) error {
				return s.reactionRepo.CreatePostStar(ctx, entityID, userID)
			},
			remove: func(ctx context.Context) (bool, error) {
				return s.reactionRepo.DeletePostStar(ctx, entityID, userID)
			},
			count: func(ctx context.Context) (int64, error) {
				return s.reactionRepo.GetPostStarsCount(ctx, entityID)
			},
		}
	}
	return toggleOps{
		exists: func(ctx context.Context) (bool, error) {
			return s.reactionRepo.CheckPostLikeExists(ctx, entityID, userID)
		},
		create: func(ctx context.Context) error {
			return s.reactionRepo.CreatePostLike(ctx, entityID, userID)
		},
		remove: func(ctx context.Context) (bool, error) {
			return s.reactionRepo.DeletePostLike(ctx, entityID, userID)
		},
		count: func(ctx context.Context) (int64, error) {
			return s.reactionRepo.GetPostLikesCount(ctx, entityID)
		},
	}
}

// awardExp 互动成立给对象作者加经验，取消互动扣回；自己互动自己不计
func (s *reactionServiceImpl) awardExp(ctx context.Context, ownerID, actorID string, state bool) {
	if ownerID == actorID {
		return
	}
	delta := consts.ExpPerReaction
	if !state {
		delta = -delta
	}
	if _, err := s.expService.AddExp(ctx, ownerID, delta); err != nil {
		log.WarnContext(ctx, "互动经验结算失败", "ownerID", ownerID, "delta", delta, "err", err)
	}
}

func (s *reactionServiceImpl) evictAfterToggle(ctx context.Context, entity EntityKind, reaction ReactionKind, entityID uuid.UUID, userID string) {
	if entity == EntityComment {
		s.cache.Evict(ctx, cache.CommentLikes, statusKey(entityID, userID))
		s.cache.EvictAll(ctx, cache.CommentContent, cache.AllComments)
		return
	}

	if reaction == ReactionStar {
		s.cache.Evict(ctx, cache.PostStars, statusKey(entityID, userID))
		s.cache.EvictAll(ctx, cache.StarredPostsContent, cache.StarredPostsCount)
	} else {
		s.cache.Evict(ctx, cache.PostLikes, statusKey(entityID, userID))
		s.cache.EvictAll(ctx, cache.LikedPostsContent, cache.LikedPostsCount)
	}
	s.cache.Evict(ctx, cache.SinglePost, entityID.String())
	s.cache.EvictAll(ctx, cache.PostsContent)
}

func statusKey(entityID uuid.UUID, userID string) string {
	return entityID.String() + ":" + userID
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

// pageKey 分页缓存键
func pageKey(page, size int) string {
	return strconv.Itoa(page) + ":" + strconv.Itoa(size)
}
