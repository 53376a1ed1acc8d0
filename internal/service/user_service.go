package service

import (
	"context"

	"realdeal/internal/api/dto"
	"realdeal/internal/model"
	"realdeal/internal/pkg/level"
	"realdeal/internal/pkg/security"
	"realdeal/internal/repository"
)

// UserService 用户档案注册与成长进度
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.RegisterResultDTO, error)
	// GetProgress 用户资料连同经验条信息
	GetProgress(ctx context.Context, userID string) (*dto.UserProfileDTO, error)
}

type userServiceImpl struct {
	userRepo repository.UserProfileRepo
	levels   *level.Table
}

func NewUserService(userRepo repository.UserProfileRepo, levels *level.Table) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		levels:   levels,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.RegisterResultDTO, error) {
	user := &model.UserProfile{
		UserID:   req.UserID,
		Username: req.Username,
		Email:    req.Email,
		Level:    1,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if isDuplicateError(err) {
			return nil, s.classifyConflict(ctx, req)
		}
		return nil, err
	}

	token, err := security.GenerateToken(user.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResultDTO{
		User:  s.shapeProfile(user),
		Token: token,
	}, nil
}

func (s *userServiceImpl) GetProgress(ctx context.Context, userID string) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.shapeProfile(user), nil
}

// classifyConflict 唯一键撞上后定位具体是哪个字段冲突
func (s *userServiceImpl) classifyConflict(ctx context.Context, req *dto.RegisterDTO) error {
	if existing, err := s.userRepo.GetUserByUsername(ctx, req.Username); err == nil && existing != nil {
		return ErrUserUsernameExist
	}
	if existing, err := s.userRepo.GetUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return ErrUserEmailExist
	}
	return ErrUserExist
}

func (s *userServiceImpl) shapeProfile(user *model.UserProfile) *dto.UserProfileDTO {
	return &dto.UserProfileDTO{
		UserID:          user.UserID,
		Username:        user.Username,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		Experience:      user.Experience,
		Level:           user.Level,
		ExpForNext:      s.levels.ExpForNext(user.Experience),
		CreatedAt:       user.CreatedAt.Format(timeLayout),
	}
}
