package wire

import (
	"time"

	"realdeal/internal/api"
	"realdeal/internal/api/config"
	"realdeal/internal/api/handler"
	"realdeal/internal/job"
	"realdeal/internal/pkg/cache"
	"realdeal/internal/pkg/cron"
	"realdeal/internal/pkg/kafka"
	"realdeal/internal/pkg/level"
	"realdeal/internal/pkg/redis"
	"realdeal/internal/repository"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	Producer kafka.EventProducer
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	loc := time.UTC
	if cfg.Server.Timezone != "" {
		parsed, err := time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			return nil, err
		}
		loc = parsed
	}

	userRepo := repository.NewUserProfileRepo(db)
	postRepo := repository.NewPostRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	reactionRepo := repository.NewReactionRepo(db)
	genreRepo := repository.NewGenreRepo(db)

	store := cache.NewRedisStore(redis.GetRdbClient())
	coordinator := cache.NewCoordinator(store, time.Duration(cfg.Cache.LoaderTimeout)*time.Millisecond)

	producer, err := kafka.NewEventProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	levels := level.NewDefaultTable()
	notifier := service.NewEngagementNotifier(producer)
	expService := service.NewExperienceService(userRepo, levels, notifier, loc)
	reactionService := service.NewReactionService(reactionRepo, postRepo, commentRepo, expService, coordinator)
	genreService := service.NewGenreService(genreRepo, postRepo, coordinator)
	recommendationService := service.NewRecommendationService(genreService)
	postService := service.NewPostService(postRepo, userRepo, genreRepo, reactionService, expService, recommendationService, genreService, coordinator)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, reactionService, coordinator)
	userService := service.NewUserService(userRepo, levels)
	uploadService := service.NewUploadService()

	handlers := &api.HandlersGroup{
		UserHandler:    handler.NewUserHandler(userService, uploadService),
		PostHandler:    handler.NewPostHandler(postService, reactionService, genreService),
		CommentHandler: handler.NewCommentHandler(commentService, reactionService),
		GenreHandler:   handler.NewGenreHandler(genreService),
		WSHandler:      handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers, expService)

	cronMgr := cron.NewCronManager(job.NewCounterAuditJob(reactionRepo, coordinator))

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Producer: producer,
	}, nil
}
