package usecase

import (
	"context"
	"time"

	"geosocial/pkg/apperr"
	"geosocial/pkg/logger"
	"geosocial/pkg/validation"
	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/repo/persistent"
)

const eventPublishTimeout = 2 * time.Second

type LikeUseCase interface {
	Like(ctx context.Context, userID, postID string) (entity.LikeOutcome, error)
	Unlike(ctx context.Context, userID, postID string) (entity.LikeOutcome, error)
	CountFor(ctx context.Context, postID string) (int64, error)
	CountForPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	ListLikers(ctx context.Context, postID string, page entity.PageRequest) (*entity.LikerPage, error)
	DeleteForPost(ctx context.Context, postID string) (int64, error)
}

type likeUseCase struct {
	likeRepo    persistent.LikeRepository
	postRepo    persistent.PostRepository
	publisher   EventPublisher
	maxPageSize int
	logger      *logger.Logger
}

func NewLikeUseCase(
	likeRepo persistent.LikeRepository,
	postRepo persistent.PostRepository,
	publisher EventPublisher,
	maxPageSize int,
	logger *logger.Logger,
) LikeUseCase {
	return &likeUseCase{
		likeRepo:    likeRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

func (uc *likeUseCase) Like(ctx context.Context, userID, postID string) (entity.LikeOutcome, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}

	added, err := uc.likeRepo.Create(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	if !added {
		return entity.LikeAlreadyLiked, nil
	}

	publishEvent(ctx, uc.publisher, uc.logger, EventPostLiked, map[string]interface{}{
		"post_id":  postID,
		"user_id":  userID,
		"owner_id": post.UserID,
	})
	return entity.LikeAdded, nil
}

func (uc *likeUseCase) Unlike(ctx context.Context, userID, postID string) (entity.LikeOutcome, error) {
	removed, err := uc.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return "", err
	}
	if !removed {
		return entity.UnlikeNotLiked, nil
	}
	return entity.UnlikeRemoved, nil
}

func (uc *likeUseCase) CountFor(ctx context.Context, postID string) (int64, error) {
	return uc.likeRepo.CountForPost(ctx, postID)
}

func (uc *likeUseCase) CountForPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return uc.likeRepo.CountForPosts(ctx, postIDs)
}

func (uc *likeUseCase) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return uc.likeRepo.Exists(ctx, userID, postID)
}

func (uc *likeUseCase) LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return uc.likeRepo.LikedPostIDs(ctx, userID, postIDs)
}

func (uc *likeUseCase) ListLikers(ctx context.Context, postID string, page entity.PageRequest) (*entity.LikerPage, error) {
	if err := validation.Pagination(page.Page, page.Size, uc.maxPageSize); err != nil {
		return nil, err
	}

	exists, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("post not found")
	}

	likers, total, err := uc.likeRepo.ListLikers(ctx, postID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &entity.LikerPage{Items: likers, Total: total, Page: page.Page, Size: page.Size}, nil
}

// DeleteForPost removes every like of a post. It is the explicit cascade run
// by post deletion, inside the caller's transaction when ctx carries one.
func (uc *likeUseCase) DeleteForPost(ctx context.Context, postID string) (int64, error) {
	return uc.likeRepo.DeleteForPost(ctx, postID)
}

// publishEvent delivers an event without letting broker trouble reach the
// caller. It outlives request cancellation but is bounded by its own timeout.
func publishEvent(ctx context.Context, publisher EventPublisher, log *logger.Logger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, eventType, data); err != nil {
		log.Error("[EVENTS] Failed to publish %s: %v", eventType, err)
	}
}
