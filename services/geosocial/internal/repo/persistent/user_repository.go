package persistent

import (
	"context"
	"time"

	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) error
}

type userRepository struct {
	base
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &userRepository{base{db: db, timeout: timeout}}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	userModel := ToUserModel(user)
	if err := db.Create(userModel).Error; err != nil {
		return translateError(err, "user not found")
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *userRepository) getBy(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var userModel model.UserModel
	if err := db.Where(query, arg).First(&userModel).Error; err != nil {
		return nil, translateError(err, "user not found")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch entity.UserPatch) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Password != nil {
		updates["password"] = *patch.Password
	}

	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&model.UserModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error, "user not found")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "user not found")
	}
	return nil
}
