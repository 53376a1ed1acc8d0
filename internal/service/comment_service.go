package service

import (
	"context"

	"realdeal/internal/api/dto"
	"realdeal/internal/model"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/repository"

	"github.com/google/uuid"
)

// CommentService 评论发布与树形读取。评论平表存储，读取时按 parent_id 组装
type CommentService interface {
	AddComment(ctx context.Context, userID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	// GetCommentPage 顶级评论分页，每条带其下全部回复
	GetCommentPage(ctx context.Context, postID uuid.UUID, viewerID string, page, size int) (*dto.CommentPageDTO, error)
	GetAllComments(ctx context.Context, postID uuid.UUID, viewerID string) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID, userID string) error
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepo
	postRepo    repository.PostRepo
	userRepo    repository.UserProfileRepo
	reactionSvc ReactionService
	cache       *cache.Coordinator
}

func NewCommentService(
	commentRepo repository.CommentRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserProfileRepo,
	reactionSvc ReactionService,
	coordinator *cache.Coordinator,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		reactionSvc: reactionSvc,
		cache:       coordinator,
	}
}

func (s *commentServiceImpl) AddComment(ctx context.Context, userID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, ErrParamInvalid
	}
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, ErrParamInvalid
		}
		parent, err := s.commentRepo.GetCommentByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, ErrCommentNotFound
		}
		comment.ParentID = &parentID
	}

	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.evictPostComments(ctx, postID)

	items, err := s.shapeComments(ctx, []*model.Comment{comment}, userID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *commentServiceImpl) GetCommentPage(ctx context.Context, postID uuid.UUID, viewerID string, page, size int) (*dto.CommentPageDTO, error) {
	topLevel, err := cache.GetOrLoad(ctx, s.cache, cache.CommentContent, postID.String()+":"+pageKey(page, size), func(ctx context.Context) ([]*model.Comment, error) {
		tree, err := s.loadCommentTree(ctx, postID)
		if err != nil {
			return nil, err
		}
		start := (page - 1) * size
		if start >= len(tree) {
			return []*model.Comment{}, nil
		}
		end := start + size
		if end > len(tree) {
			end = len(tree)
		}
		return tree[start:end], nil
	})
	if err != nil {
		return nil, err
	}

	total, err := cache.GetOrLoad(ctx, s.cache, cache.CommentCount, postID.String(), func(ctx context.Context) (int64, error) {
		return s.commentRepo.CountTopLevelComments(ctx, postID)
	})
	if err != nil {
		return nil, err
	}

	items, err := s.shapeComments(ctx, topLevel, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.CommentPageDTO{Items: items, Total: total}, nil
}

func (s *commentServiceImpl) GetAllComments(ctx context.Context, postID uuid.UUID, viewerID string) ([]*dto.CommentDTO, error) {
	tree, err := cache.GetOrLoad(ctx, s.cache, cache.AllComments, postID.String(), func(ctx context.Context) ([]*model.Comment, error) {
		return s.loadCommentTree(ctx, postID)
	})
	if err != nil {
		return nil, err
	}
	return s.shapeComments(ctx, tree, viewerID)
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID uuid.UUID, userID string) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}

	if err = s.commentRepo.DeleteCommentTree(ctx, commentID); err != nil {
		return err
	}
	s.evictPostComments(ctx, comment.PostID)
	return nil
}

// loadCommentTree 取帖子全部评论并按邻接关系组装成顶级评论列表
func (s *commentServiceImpl) loadCommentTree(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	comments, err := s.commentRepo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	topLevel := make([]*model.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			topLevel = append(topLevel, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return topLevel, nil
}

func (s *commentServiceImpl) evictPostComments(ctx context.Context, postID uuid.UUID) {
	s.cache.EvictPrefix(ctx, cache.CommentContent, postID.String()+":")
	s.cache.Evict(ctx, cache.CommentCount, postID.String())
	s.cache.Evict(ctx, cache.AllComments, postID.String())
}

func (s *commentServiceImpl) shapeComments(ctx context.Context, comments []*model.Comment, viewerID string) ([]*dto.CommentDTO, error) {
	userIDs := make([]string, 0)
	seen := make(map[string]struct{})
	var collect func(list []*model.Comment)
	collect = func(list []*model.Comment) {
		for _, c := range list {
			if _, ok := seen[c.UserID]; !ok {
				seen[c.UserID] = struct{}{}
				userIDs = append(userIDs, c.UserID)
			}
			collect(c.Replies)
		}
	}
	collect(comments)

	usernames := make(map[string]string, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.userRepo.GetUserByIds(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			usernames[user.UserID] = user.Username
		}
	}

	var shape func(list []*model.Comment) []*dto.CommentDTO
	shape = func(list []*model.Comment) []*dto.CommentDTO {
		items := make([]*dto.CommentDTO, 0, len(list))
		for _, c := range list {
			item := &dto.CommentDTO{
				ID:         c.ID.String(),
				PostID:     c.PostID.String(),
				UserID:     c.UserID,
				Username:   usernames[c.UserID],
				Content:    c.Content,
				LikesCount: c.LikesCount,
				CreatedAt:  c.CreatedAt.Format(timeLayout),
				Replies:    shape(c.Replies),
			}
			if c.ParentID != nil {
				pid := c.ParentID.String()
				item.ParentID = &pid
			}
			if viewerID != "" {
				if liked, err := s.reactionSvc.HasLikedComment(ctx, c.ID, viewerID); err == nil {
					item.Liked = liked
				}
			}
			items = append(items, item)
		}
		return items
	}
	return shape(comments), nil
}
