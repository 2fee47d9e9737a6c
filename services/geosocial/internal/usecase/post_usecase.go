package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"geosocial/pkg/apperr"
	"geosocial/pkg/geo"
	"geosocial/pkg/logger"
	"geosocial/pkg/validation"
	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/repo/persistent"

	"github.com/google/uuid"
)

const (
	DefaultNearbyRadius = 30000.0
	MaxNearbyRadius     = 500000.0
	// nearbyScanLimit caps the candidate rows a radius query reads from the
	// bounding box before the exact distance filter.
	nearbyScanLimit = 5000
	maxCommentChars = 2000
)

type CreatePostInput struct {
	Comment     *string
	Latitude    *float64
	Longitude   *float64
	Image       io.Reader
	ImageName   string
	ImageSize   int64
	ContentType string
}

type UpdatePostInput struct {
	Comment   *string  `json:"comment"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Radius    float64
}

type PostOptions struct {
	MaxPageSize   int
	MaxImageBytes int64
}

type PostUseCase interface {
	CreatePost(ctx context.Context, userID string, input CreatePostInput) (*entity.PostView, error)
	GetPost(ctx context.Context, postID, viewerID string) (*entity.PostView, error)
	UpdatePost(ctx context.Context, postID, userID string, input UpdatePostInput) (*entity.PostView, error)
	DeletePost(ctx context.Context, postID, userID string) error
	ListFeed(ctx context.Context, page entity.PageRequest, viewerID string) (*entity.PostPage, error)
	ListByBoundingBox(ctx context.Context, box entity.BoundingBox, page entity.PageRequest, viewerID string) (*entity.PostPage, error)
	ListNearby(ctx context.Context, query NearbyQuery, page entity.PageRequest, viewerID string) (*entity.PostPage, error)
	ListUserPosts(ctx context.Context, userID string, page entity.PageRequest, viewerID string) (*entity.PostPage, error)
	ListLikedPosts(ctx context.Context, userID string, page entity.PageRequest) (*entity.PostPage, error)
}

type postUseCase struct {
	postRepo   persistent.PostRepository
	userRepo   persistent.UserRepository
	likes      LikeUseCase
	transactor persistent.Transactor
	imageStore ImageStore
	cache      PostCache
	publisher  EventPublisher
	options    PostOptions
	logger     *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	userRepo persistent.UserRepository,
	likes LikeUseCase,
	transactor persistent.Transactor,
	imageStore ImageStore,
	cache PostCache,
	publisher EventPublisher,
	options PostOptions,
	logger *logger.Logger,
) PostUseCase {
	if cache == nil {
		cache = noCache{}
	}
	return &postUseCase{
		postRepo:   postRepo,
		userRepo:   userRepo,
		likes:      likes,
		transactor: transactor,
		imageStore: imageStore,
		cache:      cache,
		publisher:  publisher,
		options:    options,
		logger:     logger,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID string, input CreatePostInput) (*entity.PostView, error) {
	fields := map[string]string{}
	if err := validation.Coordinates(input.Latitude, input.Longitude, true); err != nil {
		for field, reason := range apperr.As(err).Fields {
			fields[field] = reason
		}
	}
	if input.Comment != nil && len([]rune(*input.Comment)) > maxCommentChars {
		fields["comment"] = fmt.Sprintf("must be at most %d characters", maxCommentChars)
	}
	switch {
	case input.Image == nil:
		fields["image"] = "is required"
	case !strings.HasPrefix(input.ContentType, "image/"):
		fields["image"] = "must be an image"
	case uc.options.MaxImageBytes > 0 && input.ImageSize > uc.options.MaxImageBytes:
		fields["image"] = fmt.Sprintf("must be at most %d bytes", uc.options.MaxImageBytes)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid post", fields)
	}
	if uc.imageStore == nil {
		return nil, apperr.Transient("image storage is unavailable", nil)
	}

	key := fmt.Sprintf("posts/%s/%s%s", userID, uuid.New().String(), strings.ToLower(path.Ext(input.ImageName)))
	imageURL, err := uc.imageStore.UploadFile(ctx, key, input.Image, input.ContentType)
	if err != nil {
		uc.logger.Error("Failed to upload image for user %s: %v", userID, err)
		return nil, apperr.Transient("failed to store image", err)
	}

	post := &entity.Post{
		UserID:    userID,
		ImageURL:  imageURL,
		Comment:   normalizeComment(input.Comment),
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		if delErr := uc.imageStore.DeleteFile(context.WithoutCancel(ctx), key); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned image %s: %v", key, delErr)
		}
		return nil, err
	}

	uc.cache.Set(ctx, post)
	publishEvent(ctx, uc.publisher, uc.logger, EventPostCreated, map[string]interface{}{
		"post_id":   post.ID,
		"user_id":   post.UserID,
		"latitude":  post.Latitude,
		"longitude": post.Longitude,
	})

	liked := false
	return &entity.PostView{Post: post, LikesCount: 0, IsLiked: &liked}, nil
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (uc *postUseCase) GetPost(ctx context.Context, postID, viewerID string) (*entity.PostView, error) {
	post, ok := uc.cache.Get(ctx, postID)
	if !ok {
		var err error
		post, err = uc.postRepo.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, post)
	}

	views, err := uc.views(ctx, []*entity.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, postID, userID string, input UpdatePostInput) (*entity.PostView, error) {
	fields := map[string]string{}
	if err := validation.Coordinates(input.Latitude, input.Longitude, false); err != nil {
		for field, reason := range apperr.As(err).Fields {
			fields[field] = reason
		}
	}
	if input.Comment != nil && len([]rune(*input.Comment)) > maxCommentChars {
		fields["comment"] = fmt.Sprintf("must be at most %d characters", maxCommentChars)
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid post", fields)
	}

	patch := entity.PostPatch{Latitude: input.Latitude, Longitude: input.Longitude}
	if input.Comment != nil {
		trimmed := strings.TrimSpace(*input.Comment)
		patch.Comment = &trimmed
	}

	post, err := uc.postRepo.UpdateOwned(ctx, postID, userID, patch)
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, postID)

	views, err := uc.views(ctx, []*entity.Post{post}, userID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	var removedLikes int64
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.postRepo.DeleteOwned(ctx, postID, userID); err != nil {
			return err
		}
		var err error
		removedLikes, err = uc.likes.DeleteForPost(ctx, postID)
		return err
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, postID)
	uc.logger.Info("Post deleted: id=%s owner=%s likes_removed=%d", postID, userID, removedLikes)
	return nil
}

func (uc *postUseCase) ListFeed(ctx context.Context, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	if err := validation.Pagination(page.Page, page.Size, uc.options.MaxPageSize); err != nil {
		return nil, err
	}

	posts, total, err := uc.postRepo.ListFeed(ctx, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return uc.page(ctx, posts, total, page, viewerID)
}

func (uc *postUseCase) ListByBoundingBox(ctx context.Context, box entity.BoundingBox, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	if err := validation.BoundingBox(box.LatMin, box.LatMax, box.LonMin, box.LonMax); err != nil {
		return nil, err
	}
	if err := validation.Pagination(page.Page, page.Size, uc.options.MaxPageSize); err != nil {
		return nil, err
	}

	posts, total, err := uc.postRepo.ListInBox(ctx, box, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return uc.page(ctx, posts, total, page, viewerID)
}

func (uc *postUseCase) ListNearby(ctx context.Context, query NearbyQuery, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	lat, lon := query.Latitude, query.Longitude
	if err := validation.Coordinates(&lat, &lon, true); err != nil {
		return nil, err
	}
	if err := validation.Radius(query.Radius, MaxNearbyRadius); err != nil {
		return nil, err
	}
	if err := validation.Pagination(page.Page, page.Size, uc.options.MaxPageSize); err != nil {
		return nil, err
	}

	b := geo.BoundingBox(lat, lon, query.Radius)
	box := entity.BoundingBox{LatMin: b.LatMin, LatMax: b.LatMax, LonMin: b.LonMin, LonMax: b.LonMax}
	candidates, _, err := uc.postRepo.ListInBox(ctx, box, nearbyScanLimit, 0)
	if err != nil {
		return nil, err
	}

	within := make([]*entity.Post, 0, len(candidates))
	for _, post := range candidates {
		if geo.DistanceMeters(lat, lon, post.Latitude, post.Longitude) <= query.Radius {
			within = append(within, post)
		}
	}

	start := page.Offset()
	if start < 0 || start > len(within) {
		start = len(within)
	}
	end := len(within)
	if page.Size < end-start {
		end = start + page.Size
	}
	return uc.page(ctx, within[start:end], int64(len(within)), page, viewerID)
}

func (uc *postUseCase) ListUserPosts(ctx context.Context, userID string, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	if err := validation.Pagination(page.Page, page.Size, uc.options.MaxPageSize); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts, total, err := uc.postRepo.ListByUser(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return uc.page(ctx, posts, total, page, viewerID)
}

func (uc *postUseCase) ListLikedPosts(ctx context.Context, userID string, page entity.PageRequest) (*entity.PostPage, error) {
	if err := validation.Pagination(page.Page, page.Size, uc.options.MaxPageSize); err != nil {
		return nil, err
	}

	posts, total, err := uc.postRepo.ListLikedBy(ctx, userID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return uc.page(ctx, posts, total, page, userID)
}

func (uc *postUseCase) page(ctx context.Context, posts []*entity.Post, total int64, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	views, err := uc.views(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &entity.PostPage{Items: views, Total: total, Page: page.Page, Size: page.Size}, nil
}

// views joins live like counts, plus the viewer's like flag when a viewer is
// known, onto posts.
func (uc *postUseCase) views(ctx context.Context, posts []*entity.Post, viewerID string) ([]*entity.PostView, error) {
	views := make([]*entity.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}

	counts, err := uc.likes.CountForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	var liked map[string]bool
	if viewerID != "" {
		liked, err = uc.likes.LikedPosts(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for i, post := range posts {
		view := &entity.PostView{Post: post, LikesCount: counts[post.ID]}
		if liked != nil {
			isLiked := liked[post.ID]
			view.IsLiked = &isLiked
		}
		views[i] = view
	}
	return views, nil
}
