package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserModel_BeforeCreate(t *testing.T) {
	user := &UserModel{Username: "testuser", Email: "test@example.com", Password: "hash"}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUserModel_BeforeCreate_WithID(t *testing.T) {
	user := &UserModel{ID: "existing-id-123"}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, "existing-id-123", user.ID)
}

func TestPostModel_BeforeCreate(t *testing.T) {
	post := &PostModel{UserID: "user-123", ImageURL: "https://cdn/x.jpg", Latitude: 45, Longitude: 15}

	err := post.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}

func TestRefreshTokenModel_BeforeCreate(t *testing.T) {
	token := &RefreshTokenModel{UserID: "user-123", TokenHash: "abc"}

	err := token.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, token.ID)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", UserModel{}.TableName())
	assert.Equal(t, "posts", PostModel{}.TableName())
	assert.Equal(t, "likes", LikeModel{}.TableName())
	assert.Equal(t, "refresh_tokens", RefreshTokenModel{}.TableName())
}
