package app

import (
	"net/http"
	"time"

	"geosocial/pkg/config"
	"geosocial/pkg/jwt"
	"geosocial/pkg/logger"
	"geosocial/pkg/middleware"
	geoHTTP "geosocial/services/geosocial/internal/controller/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	registerLimitPerMinute = 3
	loginLimitPerMinute    = 5
)

type Handlers struct {
	Auth *geoHTTP.AuthHandler
	Post *geoHTTP.PostHandler
	Like *geoHTTP.LikeHandler
}

// NewRouter mounts every route under /api/v1. redisClient may be nil, which
// disables rate limiting.
func NewRouter(cfg *config.Config, log *logger.Logger, jwtService *jwt.Service, redisClient *redis.Client, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService)
	limit := middleware.RateLimitMiddleware(redisClient, log, cfg.RateLimitPerMinute, time.Minute)

	api := r.Group("/api/v1")
	{
		api.POST("/register", middleware.RateLimitMiddleware(redisClient, log, registerLimitPerMinute, time.Minute), h.Auth.Register)
		api.POST("/login", middleware.RateLimitMiddleware(redisClient, log, loginLimitPerMinute, time.Minute), h.Auth.Login)
		api.POST("/refresh", limit, h.Auth.Refresh)
		api.POST("/logout", limit, h.Auth.Logout)

		public := api.Group("")
		public.Use(optionalAuth, limit)
		{
			public.GET("/users/:id", h.Auth.GetUser)
			public.GET("/users/:id/posts", h.Post.ListUserPosts)
			public.GET("/posts", h.Post.ListFeed)
			public.GET("/posts/map", h.Post.MapQuery)
			public.GET("/posts/nearby", h.Post.Nearby)
			public.GET("/posts/:id", h.Post.GetPost)
			public.GET("/posts/:id/likes", h.Like.ListLikes)
		}

		protected := api.Group("")
		protected.Use(auth, limit)
		{
			protected.POST("/logout-all", h.Auth.LogoutAll)
			protected.GET("/me", h.Auth.Me)
			protected.PUT("/me", h.Auth.UpdateMe)
			protected.POST("/me/avatar", h.Auth.UploadAvatar)
			protected.GET("/me/likes", h.Post.ListLikedPosts)

			protected.POST("/posts", h.Post.CreatePost)
			protected.PUT("/posts/:id", h.Post.UpdatePost)
			protected.DELETE("/posts/:id", h.Post.DeletePost)
			protected.POST("/posts/:id/like", h.Like.LikePost)
			protected.DELETE("/posts/:id/like", h.Like.UnlikePost)
		}
	}

	return r
}
