package handler

import (
	"context"

	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/response"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	postSvc     service.PostService
	reactionSvc service.ReactionService
	genreSvc    service.GenreService
}

func NewPostHandler(postSvc service.PostService, reactionSvc service.ReactionService, genreSvc service.GenreService) *PostHandler {
	return &PostHandler{
		postSvc:     postSvc,
		reactionSvc: reactionSvc,
		genreSvc:    genreSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postID, c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdatePostDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postSvc.UpdatePost(c.Request.Context(), postID, userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.postSvc.DeletePost(c.Request.Context(), postID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetFeed 全站帖子流，登录用户按偏好重排
func (s *PostHandler) GetFeed(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, size := normalizePage(query.Page, query.Size)

	posts, err := s.postSvc.GetFeed(c.Request.Context(), c.GetString("user_id"), page, size, query.PostsViewed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) GetUserPosts(c *gin.Context) {
	s.listByUser(c, s.postSvc.GetPostsByUser)
}

func (s *PostHandler) GetLikedPosts(c *gin.Context) {
	s.listByUser(c, s.postSvc.GetLikedPosts)
}

func (s *PostHandler) GetStarredPosts(c *gin.Context) {
	s.listByUser(c, s.postSvc.GetStarredPosts)
}

func (s *PostHandler) SearchPosts(c *gin.Context) {
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, size := normalizePage(query.Page, query.Size)

	posts, err := s.postSvc.SearchPosts(c.Request.Context(), query.Keyword, c.GetString("user_id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) ToggleLike(c *gin.Context) {
	s.toggle(c, service.ReactionLike)
}

func (s *PostHandler) ToggleStar(c *gin.Context) {
	s.toggle(c, service.ReactionStar)
}

func (s *PostHandler) SetPostGenres(c *gin.Context) {
	userID := c.GetString("user_id")
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PostGenresDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.genreSvc.SetPostGenres(c.Request.Context(), postID, userID, req.GenreIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) toggle(c *gin.Context, reaction service.ReactionKind) {
	userID := c.GetString("user_id")
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := s.reactionSvc.Toggle(c.Request.Context(), service.EntityPost, reaction, postID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *PostHandler) listByUser(c *gin.Context, list func(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error)) {
	targetUserID := c.Param("user_id")
	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, size := normalizePage(query.Page, query.Size)

	posts, err := list(c.Request.Context(), targetUserID, c.GetString("user_id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 50 {
		size = 50
	}
	return page, size
}
