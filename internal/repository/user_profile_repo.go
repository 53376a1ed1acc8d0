package repository

import (
	"context"
	"errors"
	"time"

	"realdeal/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepo interface {
	CreateUser(ctx context.Context, user *model.UserProfile) error
	GetUserById(ctx context.Context, id string) (*model.UserProfile, error)
	GetUserByIds(ctx context.Context, ids []string) ([]*model.UserProfile, error)
	GetUserByUsername(ctx context.Context, username string) (*model.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	UpdateUser(ctx context.Context, user *model.UserProfile) error
	// ApplyProgress 行锁内读取用户并应用 apply 的修改，整体一个事务提交
	ApplyProgress(ctx context.Context, id string, apply func(*model.UserProfile) error) (*model.UserProfile, error)
	// ClaimDailyExp 尝试把每日经验标记推进到 today，并发下只有一个调用返回 true
	ClaimDailyExp(ctx context.Context, id string, today time.Time) (bool, error)
}

type UserProfileRepoImpl struct {
	db *gorm.DB
}

func NewUserProfileRepo(db *gorm.DB) UserProfileRepo {
	return &UserProfileRepoImpl{db: db}
}

func (s *UserProfileRepoImpl) CreateUser(ctx context.Context, user *model.UserProfile) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserProfileRepoImpl) GetUserById(ctx context.Context, id string) (*model.UserProfile, error) {
	user := &model.UserProfile{}
	result := s.db.WithContext(ctx).Where("user_id = ?", id).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserProfileRepoImpl) GetUserByIds(ctx context.Context, ids []string) ([]*model.UserProfile, error) {
	users := make([]*model.UserProfile, 0)
	result := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserProfileRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.UserProfile, error) {
	user := &model.UserProfile{}
	result := s.db.WithContext(ctx).Where("username = ?", username).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserProfileRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	user := &model.UserProfile{}
	result := s.db.WithContext(ctx).Where("email = ?", email).First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserProfileRepoImpl) UpdateUser(ctx context.Context, user *model.UserProfile) error {
	return s.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"username":          user.Username,
			"profile_image_url": user.ProfileImageURL,
		}).Error
}

func (s *UserProfileRepoImpl) ApplyProgress(ctx context.Context, id string, apply func(*model.UserProfile) error) (*model.UserProfile, error) {
	var user model.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", id).
			First(&user).Error; err != nil {
			return err
		}
		if err := apply(&user); err != nil {
			return err
		}
		return tx.Model(&model.UserProfile{}).
			Where("user_id = ?", id).
			Updates(map[string]interface{}{
				"experience": user.Experience,
				"level":      user.Level,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserProfileRepoImpl) ClaimDailyExp(ctx context.Context, id string, today time.Time) (bool, error) {
	day := today.Format("2006-01-02")
	result := s.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("user_id = ? AND (last_daily_exp IS NULL OR last_daily_exp < ?)", id, day).
		Update("last_daily_exp", day)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
