package service

import (
	"context"

	"realdeal/internal/api/dto"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/pkg/consts"
	"realdeal/internal/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// GenreService 题材目录与偏好维护，同时向排序提供题材查询
type GenreService interface {
	GenreLookup
	GetAllGenres(ctx context.Context) ([]*dto.GenreDTO, error)
	// SetUserGenres 整体替换用户偏好，最多3个
	SetUserGenres(ctx context.Context, userID string, genreIDs []int) error
	// SetPostGenres 整体替换帖子题材，1到3个，仅作者可操作
	SetPostGenres(ctx context.Context, postID uuid.UUID, userID string, genreIDs []int) error
	GetPostGenreIDs(ctx context.Context, postID uuid.UUID) ([]int, error)
}

type genreServiceImpl struct {
	genreRepo repository.GenreRepo
	postRepo  repository.PostRepo
	cache     *cache.Coordinator
}

func NewGenreService(genreRepo repository.GenreRepo, postRepo repository.PostRepo, coordinator *cache.Coordinator) GenreService {
	return &genreServiceImpl{
		genreRepo: genreRepo,
		postRepo:  postRepo,
		cache:     coordinator,
	}
}

func (s *genreServiceImpl) GetAllGenres(ctx context.Context) ([]*dto.GenreDTO, error) {
	genres, err := s.genreRepo.GetAllGenres(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.GenreDTO, 0, len(genres))
	if err = copier.Copy(&list, &genres); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *genreServiceImpl) SetUserGenres(ctx context.Context, userID string, genreIDs []int) error {
	if len(genreIDs) > consts.MaxUserGenres {
		return ErrUserGenreLimit
	}
	if err := s.checkGenresExist(ctx, genreIDs); err != nil {
		return err
	}
	if err := s.genreRepo.ReplaceUserGenres(ctx, userID, genreIDs); err != nil {
		return err
	}
	s.cache.Evict(ctx, cache.UserGenres, userID)
	return nil
}

func (s *genreServiceImpl) SetPostGenres(ctx context.Context, postID uuid.UUID, userID string, genreIDs []int) error {
	if len(genreIDs) < consts.MinPostGenres || len(genreIDs) > consts.MaxPostGenres {
		return ErrPostGenreCount
	}
	if err := s.checkGenresExist(ctx, genreIDs); err != nil {
		return err
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	if err = s.genreRepo.ReplacePostGenres(ctx, postID, genreIDs); err != nil {
		return err
	}
	s.cache.Evict(ctx, cache.PostGenres, postID.String())
	return nil
}

func (s *genreServiceImpl) GetUserGenreIDs(ctx context.Context, userID string) ([]int, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.UserGenres, userID, func(ctx context.Context) ([]int, error) {
		return s.genreRepo.GetUserGenreIDs(ctx, userID)
	})
}

func (s *genreServiceImpl) GetPostGenreIDs(ctx context.Context, postID uuid.UUID) ([]int, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.PostGenres, postID.String(), func(ctx context.Context) ([]int, error) {
		return s.genreRepo.GetPostGenreIDs(ctx, postID)
	})
}

// GetGenreIDsByPostIDs 排序热路径，一次查询取整页帖子的题材
func (s *genreServiceImpl) GetGenreIDsByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	return s.genreRepo.GetGenreIDsByPostIDs(ctx, postIDs)
}

func (s *genreServiceImpl) checkGenresExist(ctx context.Context, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}
	genres, err := s.genreRepo.GetGenresByIds(ctx, genreIDs)
	if err != nil {
		return err
	}
	known := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		known[g.ID] = struct{}{}
	}
	for _, id := range genreIDs {
		if _, ok := known[id]; !ok {
			return ErrGenreNotFound
		}
	}
	return nil
}
