package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geosocial/pkg/cache"
	"geosocial/pkg/config"
	"geosocial/pkg/database"
	"geosocial/pkg/jwt"
	"geosocial/pkg/logger"
	"geosocial/pkg/queue"
	"geosocial/pkg/s3"
	geoHTTP "geosocial/services/geosocial/internal/controller/http"
	postcache "geosocial/services/geosocial/internal/repo/cache"
	"geosocial/services/geosocial/internal/repo/persistent"
	"geosocial/services/geosocial/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "geosocial/services/geosocial/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	jwtService  *jwt.Service
	images      usecase.ImageStore
	publisher   usecase.EventPublisher
	httpServer  *http.Server
}

// NewApp connects to the store and the optional collaborators. Only the
// database is required; without Redis there is no caching or rate limiting,
// without S3 uploads fail as unavailable, and without RabbitMQ no events are
// published.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without cache and rate limits)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (uploads disabled)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without events)", err)
		queueClient = nil
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		jwtService:  jwt.NewService(cfg.JWTSecret, cfg.AccessTokenTTL),
	}
	if s3Client != nil {
		a.images = s3Client
	}
	if queueClient != nil {
		a.publisher = queueClient
	}
	return a, nil
}

func (a *App) handlers() Handlers {
	timeout := a.cfg.DBTimeout

	userRepo := persistent.NewUserRepository(a.db, timeout)
	postRepo := persistent.NewPostRepository(a.db, timeout)
	likeRepo := persistent.NewLikeRepository(a.db, timeout)
	tokenRepo := persistent.NewRefreshTokenRepository(a.db, timeout)
	transactor := persistent.NewTransactor(a.db, timeout)

	postCache := postcache.NewPostCache(a.redisClient, postcache.DefaultPostTTL, a.log)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokenRepo, a.jwtService, a.images, a.cfg.RefreshTokenTTL, a.log)
	likeUseCase := usecase.NewLikeUseCase(likeRepo, postRepo, a.publisher, a.cfg.MaxPageSize, a.log)
	postUseCase := usecase.NewPostUseCase(
		postRepo,
		userRepo,
		likeUseCase,
		transactor,
		a.images,
		postCache,
		a.publisher,
		usecase.PostOptions{MaxPageSize: a.cfg.MaxPageSize, MaxImageBytes: a.cfg.MaxImageBytes},
		a.log,
	)

	return Handlers{
		Auth: geoHTTP.NewAuthHandler(authUseCase, a.cfg.MaxImageBytes, a.log),
		Post: geoHTTP.NewPostHandler(postUseCase, a.cfg.DefaultPageSize, a.log),
		Like: geoHTTP.NewLikeHandler(likeUseCase, a.cfg.DefaultPageSize, a.log),
	}
}

func (a *App) Run() error {
	gin.SetMode(gin.ReleaseMode)
	r := NewRouter(a.cfg, a.log, a.jwtService, a.redisClient, a.handlers())

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Geosocial service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down geosocial service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	a.log.Info("Geosocial service exited")
	return nil
}
