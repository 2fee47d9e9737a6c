package model

import "time"

// LikeModel is keyed by (user_id, post_id); the primary key is what makes a
// second like from the same user a no-op.
type LikeModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    string    `gorm:"type:uuid;primaryKey;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LikeModel) TableName() string {
	return "likes"
}

// All lists every model in dependency order, for AutoMigrate in tests and
// tooling.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PostModel{},
		&LikeModel{},
		&RefreshTokenModel{},
	}
}
