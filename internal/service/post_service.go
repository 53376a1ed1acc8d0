package service

import (
	"context"
	log "log/slog"

	"realdeal/internal/api/dto"
	"realdeal/internal/model"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/pkg/consts"
	"realdeal/internal/repository"

	"github.com/google/uuid"
)

const timeLayout = "2006-01-02 15:04:05"

// PostService 帖子的增删改查与各类分页列表
type PostService interface {
	CreatePost(ctx context.Context, userID string, req *dto.CreatePostDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, postID uuid.UUID, viewerID string) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, userID string, req *dto.UpdatePostDTO) error
	DeletePost(ctx context.Context, postID uuid.UUID, userID string) error

	// GetFeed 全站帖子流，按观看者偏好重排
	GetFeed(ctx context.Context, viewerID string, page, size, postsViewed int) (*dto.PostPageDTO, error)
	GetPostsByUser(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error)
	GetLikedPosts(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error)
	GetStarredPosts(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error)
	SearchPosts(ctx context.Context, query, viewerID string, page, size int) (*dto.PostPageDTO, error)
}

type postServiceImpl struct {
	postRepo       repository.PostRepo
	userRepo       repository.UserProfileRepo
	genreRepo      repository.GenreRepo
	reactionSvc    ReactionService
	expService     ExperienceService
	recommendation RecommendationService
	genres         GenreLookup
	cache          *cache.Coordinator
}

func NewPostService(
	postRepo repository.PostRepo,
	userRepo repository.UserProfileRepo,
	genreRepo repository.GenreRepo,
	reactionSvc ReactionService,
	expService ExperienceService,
	recommendation RecommendationService,
	genres GenreLookup,
	coordinator *cache.Coordinator,
) PostService {
	return &postServiceImpl{
		postRepo:       postRepo,
		userRepo:       userRepo,
		genreRepo:      genreRepo,
		reactionSvc:    reactionSvc,
		expService:     expService,
		recommendation: recommendation,
		genres:         genres,
		cache:          coordinator,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID string, req *dto.CreatePostDTO) (*dto.PostDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err = s.checkGenresExist(ctx, req.GenreIDs); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	for i, url := range req.Images {
		post.Images = append(post.Images, model.PostImage{Position: i, URL: url})
	}
	if err = s.postRepo.CreatePost(ctx, post, req.GenreIDs); err != nil {
		return nil, err
	}

	if _, err = s.expService.AddExp(ctx, userID, consts.ExpPerPost); err != nil {
		log.WarnContext(ctx, "发帖经验结算失败", "userID", userID, "err", err)
	}

	s.cache.EvictAll(ctx, cache.PostsContent, cache.PostsCount,
		cache.UserPostsContent, cache.UserPostsCount,
		cache.SearchContent, cache.SearchCount)

	items, err := s.shapePosts(ctx, []*model.Post{post}, userID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, postID uuid.UUID, viewerID string) (*dto.PostDTO, error) {
	post, err := cache.GetOrLoad(ctx, s.cache, cache.SinglePost, postID.String(), func(ctx context.Context) (*model.Post, error) {
		return s.postRepo.GetPost(ctx, postID)
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	items, err := s.shapePosts(ctx, []*model.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, postID uuid.UUID, userID string, req *dto.UpdatePostDTO) error {
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
	if err = s.checkGenresExist(ctx, req.GenreIDs); err != nil {
		return err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Images = nil
	for i, url := range req.Images {
		post.Images = append(post.Images, model.PostImage{PostID: postID, Position: i, URL: url})
	}
	if err = s.postRepo.UpdatePost(ctx, post, req.GenreIDs); err != nil {
		return err
	}

	s.cache.Evict(ctx, cache.SinglePost, postID.String())
	s.cache.Evict(ctx, cache.PostGenres, postID.String())
	s.cache.EvictAll(ctx, cache.PostsContent, cache.UserPostsContent,
		cache.SearchContent, cache.SearchCount)
	return nil
}

func (s *postServiceImpl) DeletePost(ctx context.Context, postID uuid.UUID, userID string) error {
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

	if err = s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.cache.Evict(ctx, cache.SinglePost, postID.String())
	s.cache.Evict(ctx, cache.PostGenres, postID.String())
	s.cache.EvictAll(ctx, cache.PostsContent, cache.PostsCount,
		cache.UserPostsContent, cache.UserPostsCount,
		cache.LikedPostsContent, cache.LikedPostsCount,
		cache.StarredPostsContent, cache.StarredPostsCount,
		cache.SearchContent, cache.SearchCount,
		cache.CommentContent, cache.CommentCount, cache.AllComments)
	return nil
}

func (s *postServiceImpl) GetFeed(ctx context.Context, viewerID string, page, size, postsViewed int) (*dto.PostPageDTO, error) {
	posts, err := cache.GetOrLoad(ctx, s.cache, cache.PostsContent, pageKey(page, size), func(ctx context.Context) ([]*model.Post, error) {
		return s.postRepo.GetPostPage(ctx, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}
	total, err := cache.GetOrLoad(ctx, s.cache, cache.PostsCount, "all", func(ctx context.Context) (int64, error) {
		return s.postRepo.CountPosts(ctx)
	})
	if err != nil {
		return nil, err
	}

	// 排序在缓存取页之后做：缓存里是统一的时间序页面，权重因人而异
	ranked := s.recommendation.Rank(ctx, posts, viewerID, postsViewed)

	items, err := s.shapePosts(ctx, ranked, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total}, nil
}

func (s *postServiceImpl) GetPostsByUser(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error) {
	posts, err := cache.GetOrLoad(ctx, s.cache, cache.UserPostsContent, targetUserID+":"+pageKey(page, size), func(ctx context.Context) ([]*model.Post, error) {
		return s.postRepo.GetPostsByUser(ctx, targetUserID, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}
	total, err := cache.GetOrLoad(ctx, s.cache, cache.UserPostsCount, targetUserID, func(ctx context.Context) (int64, error) {
		return s.postRepo.CountPostsByUser(ctx, targetUserID)
	})
	if err != nil {
		return nil, err
	}
	items, err := s.shapePosts(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total}, nil
}

func (s *postServiceImpl) GetLikedPosts(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error) {
	posts, err := cache.GetOrLoad(ctx, s.cache, cache.LikedPostsContent, targetUserID+":"+pageKey(page, size), func(ctx context.Context) ([]*model.Post, error) {
		return s.postRepo.GetLikedPosts(ctx, targetUserID, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}
	total, err := cache.GetOrLoad(ctx, s.cache, cache.LikedPostsCount, targetUserID, func(ctx context.Context) (int64, error) {
		return s.postRepo.CountLikedPosts(ctx, targetUserID)
	})
	if err != nil {
		return nil, err
	}
	items, err := s.shapePosts(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total}, nil
}

func (s *postServiceImpl) GetStarredPosts(ctx context.Context, targetUserID, viewerID string, page, size int) (*dto.PostPageDTO, error) {
	posts, err := cache.GetOrLoad(ctx, s.cache, cache.StarredPostsContent, targetUserID+":"+pageKey(page, size), func(ctx context.Context) ([]*model.Post, error) {
		return s.postRepo.GetStarredPosts(ctx, targetUserID, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}
	total, err := cache.GetOrLoad(ctx, s.cache, cache.StarredPostsCount, targetUserID, func(ctx context.Context) (int64, error) {
		return s.postRepo.CountStarredPosts(ctx, targetUserID)
	})
	if err != nil {
		return nil, err
	}
	items, err := s.shapePosts(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total}, nil
}

func (s *postServiceImpl) SearchPosts(ctx context.Context, query, viewerID string, page, size int) (*dto.PostPageDTO, error) {
	if query == "" {
		return nil, ErrParamInvalid
	}
	posts, err := cache.GetOrLoad(ctx, s.cache, cache.SearchContent, query+":"+pageKey(page, size), func(ctx context.Context) ([]*model.Post, error) {
		return s.postRepo.SearchPosts(ctx, query, size, (page-1)*size)
	})
	if err != nil {
		return nil, err
	}
	total, err := cache.GetOrLoad(ctx, s.cache, cache.SearchCount, query, func(ctx context.Context) (int64, error) {
		return s.postRepo.CountSearchPosts(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	items, err := s.shapePosts(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.PostPageDTO{Items: items, Total: total}, nil
}

func (s *postServiceImpl) checkGenresExist(ctx context.Context, genreIDs []int) error {
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

// shapePosts 组装返回 DTO：批量补作者用户名、题材与观看者的互动状态
func (s *postServiceImpl) shapePosts(ctx context.Context, posts []*model.Post, viewerID string) ([]*dto.PostDTO, error) {
	if len(posts) == 0 {
		return []*dto.PostDTO{}, nil
	}

	authorIDs := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		if _, ok := seen[post.UserID]; !ok {
			seen[post.UserID] = struct{}{}
			authorIDs = append(authorIDs, post.UserID)
		}
	}

	authors, err := s.userRepo.GetUserByIds(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(authors))
	for _, author := range authors {
		usernames[author.UserID] = author.Username
	}

	genresByPost, err := s.genres.GetGenreIDsByPostIDs(ctx, postIDs)
	if err != nil {
		log.WarnContext(ctx, "补帖子题材失败", "err", err)
		genresByPost = map[uuid.UUID][]int{}
	}

	items := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		item := &dto.PostDTO{
			ID:         post.ID.String(),
			UserID:     post.UserID,
			Username:   usernames[post.UserID],
			Title:      post.Title,
			Content:    post.Content,
			Images:     make([]string, 0, len(post.Images)),
			GenreIDs:   genresByPost[post.ID],
			LikesCount: post.LikesCount,
			StarsCount: post.StarsCount,
			CreatedAt:  post.CreatedAt.Format(timeLayout),
			UpdatedAt:  post.UpdatedAt.Format(timeLayout),
		}
		for _, img := range post.Images {
			item.Images = append(item.Images, img.URL)
		}
		if viewerID != "" {
			if liked, err := s.reactionSvc.HasLikedPost(ctx, post.ID, viewerID); err == nil {
				item.Liked = liked
			}
			if starred, err := s.reactionSvc.HasStarredPost(ctx, post.ID, viewerID); err == nil {
				item.Starred = starred
			}
		}
		items = append(items, item)
	}
	return items, nil
}
