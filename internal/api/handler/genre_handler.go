package handler

import (
	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/response"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreSvc service.GenreService
}

func NewGenreHandler(genreSvc service.GenreService) *GenreHandler {
	return &GenreHandler{genreSvc: genreSvc}
}

func (s *GenreHandler) GetAllGenres(c *gin.Context) {
	genres, err := s.genreSvc.GetAllGenres(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, genres)
}

func (s *GenreHandler) SetUserGenres(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.UserGenresDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.genreSvc.SetUserGenres(c.Request.Context(), userID, req.GenreIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *GenreHandler) GetUserGenres(c *gin.Context) {
	userID := c.GetString("user_id")

	ids, err := s.genreSvc.GetUserGenreIDs(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ids)
}
