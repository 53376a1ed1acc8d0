package repository

import (
	"context"

	"realdeal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenreRepo interface {
	GetAllGenres(ctx context.Context) ([]*model.Genre, error)
	GetGenresByIds(ctx context.Context, ids []int) ([]*model.Genre, error)
	GetUserGenreIDs(ctx context.Context, userID string) ([]int, error)
	ReplaceUserGenres(ctx context.Context, userID string, genreIDs []int) error
	GetPostGenreIDs(ctx context.Context, postID uuid.UUID) ([]int, error)
	ReplacePostGenres(ctx context.Context, postID uuid.UUID, genreIDs []int) error
	// GetGenreIDsByPostIDs 批量取多个帖子的题材，供排序时一次查全
	GetGenreIDsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]int, error)
}

type GenreRepoImpl struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) GenreRepo {
	return &GenreRepoImpl{db: db}
}

func (s *GenreRepoImpl) GetAllGenres(ctx context.Context) ([]*model.Genre, error) {
	genres := make([]*model.Genre, 0)
	result := s.db.WithContext(ctx).Order("id ASC").Find(&genres)
	if result.Error != nil {
		return nil, result.Error
	}
	return genres, nil
}

func (s *GenreRepoImpl) GetGenresByIds(ctx context.Context, ids []int) ([]*model.Genre, error) {
	genres := make([]*model.Genre, 0, len(ids))
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&genres)
	if result.Error != nil {
		return nil, result.Error
	}
	return genres, nil
}

func (s *GenreRepoImpl) GetUserGenreIDs(ctx context.Context, userID string) ([]int, error) {
	ids := make([]int, 0)
	err := s.db.WithContext(ctx).Model(&model.UserGenre{}).
		Where("user_id = ?", userID).
		Pluck("genre_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GenreRepoImpl) ReplaceUserGenres(ctx context.Context, userID string, genreIDs []int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.UserGenre{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(genreIDs) == 0 {
			return nil
		}
		rows := make([]*model.UserGenre, 0, len(genreIDs))
		for _, gid := range genreIDs {
			rows = append(rows, &model.UserGenre{UserID: userID, GenreID: gid})
		}
		return tx.Create(&rows).Error
	})
}

func (s *GenreRepoImpl) GetPostGenreIDs(ctx context.Context, postID uuid.UUID) ([]int, error) {
	ids := make([]int, 0)
	err := s.db.WithContext(ctx).Model(&model.PostGenre{}).
		Where("post_id = ?", postID).
		Pluck("genre_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *GenreRepoImpl) ReplacePostGenres(ctx context.Context, postID uuid.UUID, genreIDs []int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
	})
}

func (s *GenreRepoImpl) GetGenreIDsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	rows := make([]*model.PostGenre, 0)
	result := s.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	byPost := make(map[uuid.UUID][]int, len(postIDs))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.GenreID)
	}
	return byPost, nil
}
