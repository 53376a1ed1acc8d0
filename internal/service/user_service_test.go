package service

import (
	"context"
	"testing"

	"realdeal/internal/api/dto"
	"realdeal/internal/model"
	"realdeal/internal/pkg/level"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndProgress(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, level.NewDefaultTable())
	ctx := context.Background()

	got, err := svc.Register(ctx, &dto.RegisterDTO{
		UserID:   "u1",
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, 1, got.User.Level)
	assert.Equal(t, 0, got.User.Experience)
	assert.Equal(t, 50, got.User.ExpForNext)

	progress, err := svc.GetProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", progress.Username)
}

func TestRegisterUsernameConflict(t *testing.T) {
	repo := newFakeUserRepo(&model.UserProfile{UserID: "u1", Username: "alice", Email: "alice@example.com"})
	svc := NewUserService(repo, level.NewDefaultTable())

	_, err := svc.Register(context.Background(), &dto.RegisterDTO{
		UserID:   "u2",
		Username: "alice",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, ErrUserUsernameExist)
}

func TestRegisterEmailConflict(t *testing.T) {
	repo := newFakeUserRepo(&model.UserProfile{UserID: "u1", Username: "alice", Email: "alice@example.com"})
	svc := NewUserService(repo, level.NewDefaultTable())

	_, err := svc.Register(context.Background(), &dto.RegisterDTO{
		UserID:   "u2",
		Username: "bob",
		Email:    "alice@example.com",
	})
	assert.ErrorIs(t, err, ErrUserEmailExist)
}

func TestGetProgressUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), level.NewDefaultTable())

	_, err := svc.GetProgress(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
