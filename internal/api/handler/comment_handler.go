package handler

import (
	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/response"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentSvc  service.CommentService
	reactionSvc service.ReactionService
}

func NewCommentHandler(commentSvc service.CommentService, reactionSvc service.ReactionService) *CommentHandler {
	return &CommentHandler{
		commentSvc:  commentSvc,
		reactionSvc: reactionSvc,
	}
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.commentSvc.AddComment(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

// GetCommentPage 帖子的顶级评论分页，每条带全部回复
func (s *CommentHandler) GetCommentPage(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var query dto.PageQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, size := normalizePage(query.Page, query.Size)

	comments, err := s.commentSvc.GetCommentPage(c.Request.Context(), postID, c.GetString("user_id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *CommentHandler) GetAllComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	comments, err := s.commentSvc.GetAllComments(c.Request.Context(), postID, c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	userID := c.GetString("user_id")
	commentID, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.commentSvc.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")
	commentID, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.reactionSvc.Toggle(c.Request.Context(), service.EntityComment, service.ReactionLike, commentID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
