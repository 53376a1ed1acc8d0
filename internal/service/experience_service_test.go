package service

import (
	"context"
	"testing"
	"time"

	"realdeal/internal/model"
	"realdeal/internal/pkg/level"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpFixture(users ...*model.UserProfile) (*experienceServiceImpl, *fakeUserRepo, *fakeNotifier) {
	repo := newFakeUserRepo(users...)
	notifier := &fakeNotifier{}
	svc := NewExperienceService(repo, level.NewDefaultTable(), notifier, time.UTC).(*experienceServiceImpl)
	return svc, repo, notifier
}

func TestAddExpRecomputesLevel(t *testing.T) {
	svc, _, notifier := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 48, Level: 1})

	user, err := svc.AddExp(context.Background(), "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Experience)
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 1, notifier.count())
}

func TestAddExpNoLevelChangeNoNotify(t *testing.T) {
	svc, _, notifier := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 10, Level: 1})

	user, err := svc.AddExp(context.Background(), "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, 12, user.Experience)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 0, notifier.count())
}

func TestAddExpClampsAtZero(t *testing.T) {
	svc, _, _ := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 1, Level: 1})

	user, err := svc.AddExp(context.Background(), "u1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, user.Experience)
	assert.Equal(t, 1, user.Level)
}

func TestAddExpLevelDownOnRevoke(t *testing.T) {
	svc, _, notifier := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 50, Level: 2})

	user, err := svc.AddExp(context.Background(), "u1", -2)
	require.NoError(t, err)
	assert.Equal(t, 48, user.Experience)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 1, notifier.count())
}

func TestAddExpUnknownUser(t *testing.T) {
	svc, _, _ := newExpFixture()

	_, err := svc.AddExp(context.Background(), "ghost", 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGrantDailyLoginExpOncePerDay(t *testing.T) {
	svc, repo, _ := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 0, Level: 1})
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))
	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))

	user, err := repo.GetUserById(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, user.Experience)
}

func TestGrantDailyLoginExpNextDay(t *testing.T) {
	svc, repo, _ := newExpFixture(&model.UserProfile{UserID: "u1", Experience: 0, Level: 1})
	ctx := context.Background()

	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	}
	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))

	svc.now = func() time.Time {
		return time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	}
	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))

	user, err := repo.GetUserById(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, user.Experience)
}

func TestGrantDailyLoginExpUsesConfiguredTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	repo := newFakeUserRepo(&model.UserProfile{UserID: "u1", Experience: 0, Level: 1})
	svc := NewExperienceService(repo, level.NewDefaultTable(), &fakeNotifier{}, loc).(*experienceServiceImpl)
	ctx := context.Background()

	// UTC 同一天的两个时刻，在东京时区已跨日
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) // 东京 3/10 19:00
	}
	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))

	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC) // 东京 3/11 05:00
	}
	require.NoError(t, svc.GrantDailyLoginExp(ctx, "u1"))

	user, err := repo.GetUserById(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, user.Experience)
}
