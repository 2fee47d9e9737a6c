package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;index:idx_posts_created_id,priority:2" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	Latitude  float64   `gorm:"not null;index:idx_posts_lat_lon,priority:1" json:"latitude"`
	Longitude float64   `gorm:"not null;index:idx_posts_lat_lon,priority:2" json:"longitude"`
	CreatedAt time.Time `gorm:"index:idx_posts_created_id,priority:1" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
