package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"time"

	"geosocial/pkg/apperr"
	"geosocial/pkg/cache"
	"geosocial/pkg/config"
	"geosocial/pkg/database"
	"geosocial/pkg/logger"
	"geosocial/pkg/s3"
	"geosocial/services/geosocial/internal/entity"
	postcache "geosocial/services/geosocial/internal/repo/cache"
	"geosocial/services/geosocial/internal/repo/persistent"
	"geosocial/services/geosocial/internal/usecase"
)

type place struct {
	name string
	lat  float64
	lon  float64
}

var places = []place{
	{"Zagreb", 45.8150, 15.9819},
	{"Ljubljana", 46.0569, 14.5058},
	{"Vienna", 48.2082, 16.3738},
	{"Budapest", 47.4979, 19.0402},
	{"Trieste", 45.6495, 13.7768},
	{"Split", 43.5081, 16.4402},
}

type seedUser struct {
	email    string
	username string
	password string
}

var seedUsers = []seedUser{
	{"alice@test.com", "alice", "password123"},
	{"bob@test.com", "bob_walks", "password123"},
	{"charlie@test.com", "charlie", "password123"},
	{"diana@test.com", "diana", "password123"},
	{"eve@test.com", "eve_maps", "password123"},
}

func main() {
	var offline bool
	var postsPerUser int
	flag.BoolVar(&offline, "offline", false, "generate placeholder images instead of downloading them")
	flag.IntVar(&postsPerUser, "posts", 3, "posts to create per user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, seeding without cache: %v", err)
		redisClient = nil
	}

	userRepo := persistent.NewUserRepository(db, cfg.DBTimeout)
	postRepo := persistent.NewPostRepository(db, cfg.DBTimeout)
	likeRepo := persistent.NewLikeRepository(db, cfg.DBTimeout)
	tokenRepo := persistent.NewRefreshTokenRepository(db, cfg.DBTimeout)

	auth := usecase.NewAuthUseCase(userRepo, tokenRepo, nil, s3Client, cfg.RefreshTokenTTL, log)
	likes := usecase.NewLikeUseCase(likeRepo, postRepo, nil, cfg.MaxPageSize, log)
	posts := usecase.NewPostUseCase(
		postRepo,
		userRepo,
		likes,
		persistent.NewTransactor(db, cfg.DBTimeout),
		s3Client,
		postcache.NewPostCache(redisClient, postcache.DefaultPostTTL, log),
		nil,
		usecase.PostOptions{MaxPageSize: cfg.MaxPageSize, MaxImageBytes: cfg.MaxImageBytes},
		log,
	)

	images := &imageSource{
		offline: offline,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}

	if err := seed(context.Background(), auth, posts, likes, userRepo, images, postsPerUser, cfg.MaxPageSize, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seed(
	ctx context.Context,
	auth usecase.AuthUseCase,
	posts usecase.PostUseCase,
	likes usecase.LikeUseCase,
	users persistent.UserRepository,
	images *imageSource,
	postsPerUser int,
	feedSize int,
	log *logger.Logger,
) error {
	userIDs := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		created, err := auth.Register(ctx, usecase.RegisterInput{
			Username: u.username,
			Email:    u.email,
			Password: u.password,
		})
		if apperr.Is(err, apperr.KindConflict) {
			existing, lookupErr := users.GetByUsername(ctx, u.username)
			if lookupErr != nil {
				return fmt.Errorf("failed to load existing user %s: %w", u.username, lookupErr)
			}
			log.Info("User %s already exists, skipping", u.username)
			userIDs = append(userIDs, existing.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.username, err)
		}
		log.Info("Created user: %s (%s)", created.Username, created.Email)
		userIDs = append(userIDs, created.ID)

		for i := 0; i < postsPerUser; i++ {
			p := places[(len(userIDs)+i)%len(places)]
			if err := createPost(ctx, posts, images, created.ID, created.Username, p, i); err != nil {
				log.Error("Failed to create post %d for user %s: %v", i+1, created.Username, err)
			}
		}
	}

	liked := 0
	for i, userID := range userIDs {
		feed, err := posts.ListFeed(ctx, entity.PageRequest{Page: 1, Size: feedSize}, userID)
		if err != nil {
			return fmt.Errorf("failed to list feed: %w", err)
		}
		for j, view := range feed.Items {
			if view.UserID == userID || (i+j)%2 == 1 {
				continue
			}
			outcome, err := likes.Like(ctx, userID, view.ID)
			if err != nil {
				log.Error("Failed to like post %s: %v", view.ID, err)
				continue
			}
			if outcome == entity.LikeAdded {
				liked++
			}
		}
	}

	log.Info("Created %d likes", liked)
	return nil
}

func createPost(ctx context.Context, posts usecase.PostUseCase, images *imageSource, userID, username string, p place, index int) error {
	data, contentType, err := images.fetch(ctx, username, index)
	if err != nil {
		return err
	}

	lat := p.lat + float64(index)*0.001
	lon := p.lon + float64(index)*0.001
	comment := fmt.Sprintf("%s, shot #%d by %s", p.name, index+1, username)

	_, err = posts.CreatePost(ctx, userID, usecase.CreatePostInput{
		Comment:     &comment,
		Latitude:    &lat,
		Longitude:   &lon,
		Image:       bytes.NewReader(data),
		ImageName:   fmt.Sprintf("seed_%d.png", index),
		ImageSize:   int64(len(data)),
		ContentType: contentType,
	})
	return err
}

type imageSource struct {
	offline bool
	client  *http.Client
	log     *logger.Logger
}

// fetch downloads a photo from CATAAS, falling back to a generated PNG when
// offline or when the download fails.
func (s *imageSource) fetch(ctx context.Context, username string, index int) ([]byte, string, error) {
	if !s.offline {
		data, err := s.download(ctx)
		if err == nil {
			return data, "image/jpeg", nil
		}
		s.log.Warn("Image download failed, generating placeholder: %v", err)
	}

	data, err := placeholder(username, index)
	if err != nil {
		return nil, "", err
	}
	return data, "image/png", nil
}

func (s *imageSource) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://cataas.com/cat", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cataas API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty image data")
	}
	return data, nil
}

func placeholder(username string, index int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: uint8(len(username) * 40), G: uint8(index * 70), B: 160, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
