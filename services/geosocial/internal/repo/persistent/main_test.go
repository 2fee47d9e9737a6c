package persistent

import (
	"context"
	"testing"
	"time"

	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db, time.Second).Create(context.Background(), user))
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID string, lat, lon float64, createdAt time.Time) *entity.Post {
	t.Helper()

	post := &entity.Post{
		UserID:    userID,
		ImageURL:  "https://cdn.example.com/" + uuid.New().String() + ".jpg",
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, NewPostRepository(db, time.Second).Create(context.Background(), post))
	return post
}
