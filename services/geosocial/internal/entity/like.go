package entity

import "time"

type Like struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Liker is a user reference in a post's likes list.
type Liker struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	LikedAt  time.Time `json:"liked_at"`
}

type LikerPage struct {
	Items []*Liker `json:"items"`
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
}

type LikeOutcome string

const (
	LikeAdded        LikeOutcome = "added"
	LikeAlreadyLiked LikeOutcome = "already_liked"
	UnlikeRemoved    LikeOutcome = "removed"
	UnlikeNotLiked   LikeOutcome = "not_liked"
)
