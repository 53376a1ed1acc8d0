package repository

import (
	"context"
	"errors"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, genreIDs []int) error
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uuid.UUID) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post, genreIDs []int) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	GetPostPage(ctx context.Context, limit, offset int) ([]*model.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	GetPostsByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error)
	CountPostsByUser(ctx context.Context, userID string) (int64, error)
	SearchPosts(ctx context.Context, query string, limit, offset int) ([]*model.Post, error)
	CountSearchPosts(ctx context.Context, query string) (int64, error)
	GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error)
	CountLikedPosts(ctx context.Context, userID string) (int64, error)
	GetStarredPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error)
	CountStarredPosts(ctx context.Context, userID string) (int64, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, genreIDs []int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return replacePostGenres(tx, post.ID, genreIDs)
	})
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, ids []uuid.UUID) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, len(ids))
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id IN ?", ids).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post, genreIDs []int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"title":   post.Title,
				"content": post.Content,
			}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.PostImage{}, "post_id = ?", post.ID).Error; err != nil {
			return err
		}
		if len(post.Images) > 0 {
			if err := tx.Create(&post.Images).Error; err != nil {
				return err
			}
		}
		return replacePostGenres(tx, post.ID, genreIDs)
	})
}

// DeletePost 连同图片、题材、互动记录与评论一并删除
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.PostImage{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.PostGenre{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.PostLike{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.PostStar{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, "id = ?", id).Error
	})
}

func (s *PostRepoImpl) GetPostPage(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) GetPostsByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CountPostsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	pattern := "%" + query + "%"
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CountSearchPosts(ctx context.Context, query string) (int64, error) {
	var count int64
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Count(&count).Error
	return count, err
}

// GetLikedPosts 按点赞时间倒序返回用户点赞过的帖子
func (s *PostRepoImpl) GetLikedPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Joins("JOIN post_likes pl ON pl.post_id = posts.id").
		Where("pl.user_id = ?", userID).
		Order("pl.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CountLikedPosts(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostLike{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *PostRepoImpl) GetStarredPosts(ctx context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	result := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Joins("JOIN post_stars ps ON ps.post_id = posts.id").
		Where("ps.user_id = ?", userID).
		Order("ps.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CountStarredPosts(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostStar{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func replacePostGenres(tx *gorm.DB, postID uuid.UUID, genreIDs []int) error {
	if err := tx.Delete(&model.PostGenre{}, "post_id = ?", postID).Error; err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]*model.PostGenre, 0, len(genreIDs))
	for _, gid := range genreIDs {
		rows = append(rows, &model.PostGenre{PostID: postID, GenreID: gid})
	}
	return tx.Create(&rows).Error
}
