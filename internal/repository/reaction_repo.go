package repository

import (
	"context"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionRepo 互动行为与计数的原子维护。
// Create/Delete 都在单个事务里同时改动行记录与宿主对象的计数列，
// 两者要么一起生效要么一起回滚。Delete 返回 false 表示行已不存在（并发翻转）。
type ReactionRepo interface {
	CheckPostLikeExists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	CreatePostLike(ctx context.Context, postID uuid.UUID, userID string) error
	DeletePostLike(ctx context.Context, postID uuid.UUID, userID string) (bool, error)

	CheckPostStarExists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	CreatePostStar(ctx context.Context, postID uuid.UUID, userID string) error
	DeletePostStar(ctx context.Context, postID uuid.UUID, userID string) (bool, error)

	CheckCommentLikeExists(ctx context.Context, commentID uuid.UUID, userID string) (bool, error)
	CreateCommentLike(ctx context.Context, commentID uuid.UUID, userID string) error
	DeleteCommentLike(ctx context.Context, commentID uuid.UUID, userID string) (bool, error)

	GetPostLikesCount(ctx context.Context, postID uuid.UUID) (int64, error)
	GetPostStarsCount(ctx context.Context, postID uuid.UUID) (int64, error)
	GetCommentLikesCount(ctx context.Context, commentID uuid.UUID) (int64, error)

	// ReconcileCounts 用行记录的真实数量修正所有计数列，返回被修正的行数
	ReconcileCounts(ctx context.Context) (int64, error)
}

type ReactionRepoImpl struct {
	db *gorm.DB
}

func NewReactionRepo(db *gorm.DB) ReactionRepo {
	return &ReactionRepoImpl{db: db}
}

func (s *ReactionRepoImpl) CheckPostLikeExists(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReactionRepoImpl) CreatePostLike(ctx context.Context, postID uuid.UUID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

func (s *ReactionRepoImpl) DeletePostLike(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.PostLike{}, "post_id = ? AND user_id = ?", postID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&model.Post{}).
			Where("id = ? AND likes_count > 0", postID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return removed, err
}

func (s *ReactionRepoImpl) CheckPostStarExists(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostStar{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReactionRepoImpl) CreatePostStar(ctx context.Context, postID uuid.UUID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.PostStar{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Update("stars_count", gorm.Expr("stars_count + 1")).Error
	})
}

func (s *ReactionRepoImpl) DeletePostStar(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.PostStar{}, "post_id = ? AND user_id = ?", postID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&model.Post{}).
			Where("id = ? AND stars_count > 0", postID).
			Update("stars_count", gorm.Expr("stars_count - 1")).Error
	})
	return removed, err
}

func (s *ReactionRepoImpl) CheckCommentLikeExists(ctx context.Context, commentID uuid.UUID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReactionRepoImpl) CreateCommentLike(ctx context.Context, commentID uuid.UUID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

func (s *ReactionRepoImpl) DeleteCommentLike(ctx context.Context, commentID uuid.UUID, userID string) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.CommentLike{}, "comment_id = ? AND user_id = ?", commentID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&model.Comment{}).
			Where("id = ? AND likes_count > 0", commentID).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	return removed, err
}

func (s *ReactionRepoImpl) GetPostLikesCount(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *ReactionRepoImpl) GetPostStarsCount(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostStar{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *ReactionRepoImpl) GetCommentLikesCount(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

func (s *ReactionRepoImpl) ReconcileCounts(ctx context.Context) (int64, error) {
	var fixed int64

	result := s.db.WithContext(ctx).Exec(`
		UPDATE posts p
		SET p.likes_count = (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)
		WHERE p.likes_count <> (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)`)
	if result.Error != nil {
		return fixed, result.Error
	}
	fixed += result.RowsAffected

	result = s.db.WithContext(ctx).Exec(`
		UPDATE posts p
		SET p.stars_count = (SELECT COUNT(*) FROM post_stars ps WHERE ps.post_id = p.id)
		WHERE p.stars_count <> (SELECT COUNT(*) FROM post_stars ps WHERE ps.post_id = p.id)`)
	if result.Error != nil {
		return fixed, result.Error
	}
	fixed += result.RowsAffected

	result = s.db.WithContext(ctx).Exec(`
		UPDATE comments c
		SET c.likes_count = (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id)
		WHERE c.likes_count <> (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id)`)
	if result.Error != nil {
		return fixed, result.Error
	}
	fixed += result.RowsAffected

	return fixed, nil
}
