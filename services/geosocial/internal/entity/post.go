package entity

import "time"

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Comment   *string   `json:"comment"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostPatch lists post changes; nil fields are left untouched. Latitude and
// Longitude change together.
type PostPatch struct {
	Comment   *string
	Latitude  *float64
	Longitude *float64
}

func (p PostPatch) Empty() bool {
	return p.Comment == nil && p.Latitude == nil && p.Longitude == nil
}

// PostView is a post joined with its engagement data for responses.
type PostView struct {
	*Post
	LikesCount int64 `json:"likes_count"`
	IsLiked    *bool `json:"is_liked,omitempty"`
}

type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

type PostPage struct {
	Items []*PostView `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}
