package usecase

import (
	"context"
	"errors"
	"io"

	"geosocial/services/geosocial/internal/entity"
)

const (
	EventPostCreated = "post.created"
	EventPostLiked   = "post.liked"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ImageStore persists image bytes and returns the public URL. It is backed by
// pkg/s3 in production.
type ImageStore interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// EventPublisher delivers engagement events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{}) error
}

type PostCache interface {
	Get(ctx context.Context, id string) (*entity.Post, bool)
	Set(ctx context.Context, post *entity.Post)
	Invalidate(ctx context.Context, id string)
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*entity.Post, bool) { return nil, false }
func (noCache) Set(context.Context, *entity.Post)                {}
func (noCache) Invalidate(context.Context, string)               {}
