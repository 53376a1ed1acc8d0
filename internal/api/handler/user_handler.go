package handler

import (
	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/response"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc   service.UserService
	uploadSvc service.UploadService
}

func NewUserHandler(userSvc service.UserService, uploadSvc service.UploadService) *UserHandler {
	return &UserHandler{
		userSvc:   userSvc,
		uploadSvc: uploadSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetProgress 用户资料与经验条
func (s *UserHandler) GetProgress(c *gin.Context) {
	userID := c.Param("user_id")

	progress, err := s.userSvc.GetProgress(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, progress)
}

// UploadImage 上传图片，返回公开访问 URL
func (s *UserHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	url, err := s.uploadSvc.UploadImage(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}
