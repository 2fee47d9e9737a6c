package persistent

import (
	"context"
	"time"

	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const likeNotFound = "like not found"

type LikeRepository interface {
	// Create records the like and reports whether a new row was written. A
	// repeated like is absorbed by the (user_id, post_id) key.
	Create(ctx context.Context, userID, postID string) (bool, error)
	Delete(ctx context.Context, userID, postID string) (bool, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
	CountForPost(ctx context.Context, postID string) (int64, error)
	CountForPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	ListLikers(ctx context.Context, postID string, limit, offset int) ([]*entity.Liker, int64, error)
	DeleteForPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct {
	base
}

func NewLikeRepository(db *gorm.DB, timeout time.Duration) LikeRepository {
	return &likeRepository{base{db: db, timeout: timeout}}
}

func (r *likeRepository) Create(ctx context.Context, userID, postID string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	likeModel := &model.LikeModel{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(likeModel)
	if result.Error != nil {
		return false, translateError(result.Error, postNotFound)
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.LikeModel{})
	if result.Error != nil {
		return false, translateError(result.Error, likeNotFound)
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&model.LikeModel{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, likeNotFound)
	}
	return count > 0, nil
}

func (r *likeRepository) CountForPost(ctx context.Context, postID string) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translateError(err, likeNotFound)
	}
	return count, nil
}

type postLikeCount struct {
	PostID string
	Total  int64
}

func (r *likeRepository) CountForPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []postLikeCount
	err := db.Model(&model.LikeModel{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, likeNotFound)
	}

	for _, id := range postIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 || userID == "" {
		return liked, nil
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	var ids []string
	err := db.Model(&model.LikeModel{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, translateError(err, likeNotFound)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

type likerRow struct {
	UserID    string
	Username  string
	CreatedAt time.Time
}

func (r *likeRepository) ListLikers(ctx context.Context, postID string, limit, offset int) ([]*entity.Liker, int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var total int64
	if err := db.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, likeNotFound)
	}
	if total == 0 {
		return []*entity.Liker{}, 0, nil
	}

	query := db.Model(&model.LikeModel{}).
		Select("likes.user_id, users.username, likes.created_at").
		Joins("INNER JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC, likes.user_id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []likerRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, translateError(err, likeNotFound)
	}

	likers := make([]*entity.Liker, len(rows))
	for i, row := range rows {
		likers[i] = &entity.Liker{UserID: row.UserID, Username: row.Username, LikedAt: row.CreatedAt}
	}
	return likers, total, nil
}

func (r *likeRepository) DeleteForPost(ctx context.Context, postID string) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Where("post_id = ?", postID).Delete(&model.LikeModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, likeNotFound)
	}
	return result.RowsAffected, nil
}
