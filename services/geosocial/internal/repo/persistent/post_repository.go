package persistent

import (
	"context"
	"time"

	"geosocial/pkg/apperr"
	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"

	"gorm.io/gorm"
)

const (
	postNotFound = "post not found"
	feedOrder    = "posts.created_at DESC, posts.id DESC"
	likedOrder   = "likes.created_at DESC, posts.id DESC"
	notPostOwner = "post belongs to another user"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	// UpdateOwned applies patch only when the post belongs to ownerID.
	UpdateOwned(ctx context.Context, id, ownerID string, patch entity.PostPatch) (*entity.Post, error)
	// DeleteOwned removes the post only when it belongs to ownerID.
	DeleteOwned(ctx context.Context, id, ownerID string) error
	ListFeed(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error)
	ListInBox(ctx context.Context, box entity.BoundingBox, limit, offset int) ([]*entity.Post, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, int64, error)
	ListLikedBy(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, int64, error)
}

type postRepository struct {
	base
}

func NewPostRepository(db *gorm.DB, timeout time.Duration) PostRepository {
	return &postRepository{base{db: db, timeout: timeout}}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	postModel := ToPostModel(post)
	if err := db.Create(postModel).Error; err != nil {
		return translateError(err, postNotFound)
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var postModel model.PostModel
	if err := db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, translateError(err, postNotFound)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&model.PostModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err, postNotFound)
	}
	return count > 0, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch entity.PostPatch) (*entity.Post, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Comment != nil {
		if *patch.Comment == "" {
			updates["comment"] = nil
		} else {
			updates["comment"] = *patch.Comment
		}
	}
	if patch.Latitude != nil {
		updates["latitude"] = *patch.Latitude
	}
	if patch.Longitude != nil {
		updates["longitude"] = *patch.Longitude
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&model.PostModel{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, translateError(result.Error, postNotFound)
	}
	if result.RowsAffected == 0 {
		return nil, r.classifyMiss(db, id)
	}

	var postModel model.PostModel
	if err := db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, translateError(err, postNotFound)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.PostModel{})
	if result.Error != nil {
		return translateError(result.Error, postNotFound)
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(db, id)
	}
	return nil
}

// classifyMiss explains why an owner-conditional statement touched no row.
func (r *postRepository) classifyMiss(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&model.PostModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateError(err, postNotFound)
	}
	if count == 0 {
		return apperr.NotFound(postNotFound)
	}
	return apperr.Forbidden(notPostOwner)
}

func (r *postRepository) ListFeed(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.PostModel{})
	}, feedOrder, limit, offset)
}

func (r *postRepository) ListInBox(ctx context.Context, box entity.BoundingBox, limit, offset int) ([]*entity.Post, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.PostModel{}).
			Where("posts.latitude BETWEEN ? AND ?", box.LatMin, box.LatMax).
			Where("posts.longitude BETWEEN ? AND ?", box.LonMin, box.LonMax)
	}, feedOrder, limit, offset)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.PostModel{}).Where("posts.user_id = ?", userID)
	}, feedOrder, limit, offset)
}

func (r *postRepository) ListLikedBy(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.PostModel{}).
			Joins("INNER JOIN likes ON likes.post_id = posts.id").
			Where("likes.user_id = ?", userID)
	}, likedOrder, limit, offset)
}

// list counts and fetches one page of the rows selected by scope. A
// non-positive limit returns every row.
func (r *postRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, order string, limit, offset int) ([]*entity.Post, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var total int64
	if err := scope(db).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, postNotFound)
	}
	if total == 0 {
		return []*entity.Post{}, 0, nil
	}

	query := scope(db).Select("posts.*").Order(order)
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var postModels []model.PostModel
	if err := query.Find(&postModels).Error; err != nil {
		return nil, 0, translateError(err, postNotFound)
	}
	return ToPostEntities(postModels), total, nil
}
