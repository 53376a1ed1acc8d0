package service

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"realdeal/internal/model"
	"realdeal/internal/pkg/consts"
	"realdeal/internal/pkg/level"
	"realdeal/internal/repository"

	"gorm.io/gorm"
)

// ExperienceService 经验与等级推进
type ExperienceService interface {
	// AddExp 调整用户经验并重算等级，经验值不会低于0
	AddExp(ctx context.Context, userID string, delta int) (*model.UserProfile, error)
	// GrantDailyLoginExp 每自然日最多发放一次的活跃奖励
	GrantDailyLoginExp(ctx context.Context, userID string) error
}

type experienceServiceImpl struct {
	userRepo repository.UserProfileRepo
	levels   *level.Table
	notifier LevelNotifier
	loc      *time.Location
	now      func() time.Time
}

func NewExperienceService(userRepo repository.UserProfileRepo, levels *level.Table, notifier LevelNotifier, loc *time.Location) ExperienceService {
	return &experienceServiceImpl{
		userRepo: userRepo,
		levels:   levels,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *experienceServiceImpl) AddExp(ctx context.Context, userID string, delta int) (*model.UserProfile, error) {
	var oldLevel int
	user, err := s.userRepo.ApplyProgress(ctx, userID, func(u *model.UserProfile) error {
		oldLevel = u.Level
		u.Experience += delta
		if u.Experience < 0 {
			u.Experience = 0
		}
		u.Level = s.levels.LevelFor(u.Experience)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Level != oldLevel {
		log.InfoContext(ctx, "用户等级变动", "userID", userID, "from", oldLevel, "to", user.Level)
		s.notifier.LevelChanged(ctx, userID, oldLevel, user.Level)
	}
	return user, nil
}

func (s *experienceServiceImpl) GrantDailyLoginExp(ctx context.Context, userID string) error {
	today := s.now().In(s.loc)
	claimed, err := s.userRepo.ClaimDailyExp(ctx, userID, today)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	_, err = s.AddExp(ctx, userID, consts.ExpDailyLogin)
	return err
}
