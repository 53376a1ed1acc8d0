package repository

import (
	"context"
	"errors"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// GetCommentsByPostID 返回帖子的全部评论，按时间正序，树形组装交给上层
	GetCommentsByPostID(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
	CountTopLevelComments(ctx context.Context, postID uuid.UUID) (int64, error)
	DeleteCommentTree(ctx context.Context, id uuid.UUID) error
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db: db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *CommentRepoImpl) GetCommentByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment := &model.Comment{}
	result := s.db.WithContext(ctx).Where("id = ?", id).First(comment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return comment, nil
}

func (s *CommentRepoImpl) GetCommentsByPostID(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	comments := make([]*model.Comment, 0)
	result := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

func (s *CommentRepoImpl) CountTopLevelComments(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&count).Error
	return count, err
}

// DeleteCommentTree 删除评论及其全部回复，连同各自的点赞记录
func (s *CommentRepoImpl) DeleteCommentTree(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM comment_likes WHERE comment_id = ? OR comment_id IN (SELECT id FROM (SELECT id FROM comments WHERE parent_id = ?) AS t)", id, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Comment{}, "parent_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, "id = ?", id).Error
	})
}
