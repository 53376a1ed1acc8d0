package api

import (
	"net/http"

	"realdeal/internal/api/middleware"
	"realdeal/internal/pkg/logger"
	"realdeal/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, expService service.ExperienceService) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/users")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/:user_id/progress", group.UserHandler.GetProgress)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.DailyExpMiddleware(expService))
			{
				authGroup.POST("/upload", group.UserHandler.UploadImage)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/all", group.PostHandler.GetFeed)
				authOptGroup.GET("/search", group.PostHandler.SearchPosts)
				authOptGroup.GET("/detail/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/user/:user_id", group.PostHandler.GetUserPosts)
				authOptGroup.GET("/liked/:user_id", group.PostHandler.GetLikedPosts)
				authOptGroup.GET("/starred/:user_id", group.PostHandler.GetStarredPosts)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.DailyExpMiddleware(expService))
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/like", group.PostHandler.ToggleLike)
				authGroup.POST("/:post_id/star", group.PostHandler.ToggleStar)
				authGroup.PUT("/:post_id/genres", group.PostHandler.SetPostGenres)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			authOptGroup := commentGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/post/:post_id", group.CommentHandler.GetCommentPage)
				authOptGroup.GET("/post/:post_id/all", group.CommentHandler.GetAllComments)
			}

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.DailyExpMiddleware(expService))
			{
				authGroup.POST("/create", group.CommentHandler.CreateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:comment_id/like", group.CommentHandler.ToggleLike)
			}
		}

		genreGroup := apiGroup.Group("/genres")
		{
			genreGroup.GET("", group.GenreHandler.GetAllGenres)

			authGroup := genreGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(), middleware.DailyExpMiddleware(expService))
			{
				authGroup.GET("/user", group.GenreHandler.GetUserGenres)
				authGroup.PUT("/user", group.GenreHandler.SetUserGenres)
			}
		}

		notifyGroup := apiGroup.Group("/notify")
		{
			notifyGroup.GET("", group.WSHandler.Connect)
		}
	}

	return r
}
