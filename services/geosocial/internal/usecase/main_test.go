package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"geosocial/pkg/jwt"
	"geosocial/pkg/logger"
	"geosocial/services/geosocial/internal/model"
	"geosocial/services/geosocial/internal/repo/persistent"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeImageStore struct {
	mu       sync.Mutex
	uploaded map[string]string
	deleted  []string
	err      error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploaded: map[string]string{}}
}

func (s *fakeImageStore) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded[key] = string(data)
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeImageStore) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

type publishedEvent struct {
	Type string
	Data map[string]interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
	return nil
}

func (p *fakePublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

var errBroker = errors.New("broker down")

type testEnv struct {
	db        *gorm.DB
	auth      AuthUseCase
	posts     PostUseCase
	likes     LikeUseCase
	images    *fakeImageStore
	publisher *fakePublisher
	jwt       *jwt.Service
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := logger.NewWithWriter(io.Discard, io.Discard)
	timeout := 5 * time.Second

	userRepo := persistent.NewUserRepository(db, timeout)
	postRepo := persistent.NewPostRepository(db, timeout)
	likeRepo := persistent.NewLikeRepository(db, timeout)
	tokenRepo := persistent.NewRefreshTokenRepository(db, timeout)
	transactor := persistent.NewTransactor(db, timeout)

	images := newFakeImageStore()
	publisher := &fakePublisher{}
	jwtService := jwt.NewService("test-secret", 30*time.Minute)

	likes := NewLikeUseCase(likeRepo, postRepo, publisher, 100, log)
	return &testEnv{
		db:        db,
		auth:      NewAuthUseCase(userRepo, tokenRepo, jwtService, images, 24*time.Hour, log),
		posts:     NewPostUseCase(postRepo, userRepo, likes, transactor, images, nil, publisher, PostOptions{MaxPageSize: 100, MaxImageBytes: 1024}, log),
		likes:     likes,
		images:    images,
		publisher: publisher,
		jwt:       jwtService,
	}
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	user, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user.ID
}

func (e *testEnv) createPost(t *testing.T, userID string, lat, lon float64) string {
	t.Helper()

	view, err := e.posts.CreatePost(context.Background(), userID, imageInput(lat, lon))
	require.NoError(t, err)
	return view.ID
}

func imageInput(lat, lon float64) CreatePostInput {
	return CreatePostInput{
		Latitude:    &lat,
		Longitude:   &lon,
		Image:       bytes.NewReader([]byte("jpeg-bytes")),
		ImageName:   "photo.JPG",
		ImageSize:   10,
		ContentType: "image/jpeg",
	}
}

func ptr[T any](v T) *T {
	return &v
}
