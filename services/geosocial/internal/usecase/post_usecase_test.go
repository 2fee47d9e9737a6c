package usecase

import (
	"context"
	"math"
	"strings"
	"testing"

	"geosocial/pkg/apperr"
	"geosocial/services/geosocial/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostUseCase_CreateAndGetRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "alice")

	input := imageInput(-33.8688, 151.2093)
	input.Comment = ptr("  harbour  ")
	created, err := env.posts.CreatePost(ctx, userID, input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ImageURL, "https://cdn.example.com/posts/"+userID+"/"))
	assert.True(t, strings.HasSuffix(created.ImageURL, ".jpg"))
	assert.Equal(t, int64(0), created.LikesCount)
	assert.Equal(t, 1, env.publisher.count(EventPostCreated))

	got, err := env.posts.GetPost(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, -33.8688, got.Latitude)
	assert.Equal(t, 151.2093, got.Longitude)
	require.NotNil(t, got.Comment)
	assert.Equal(t, "harbour", *got.Comment)
	assert.Nil(t, got.IsLiked)
}

func TestPostUseCase_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "alice")

	input := imageInput(95, 15)
	input.Longitude = nil
	_, err := env.posts.CreatePost(ctx, userID, input)
	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "latitude")
	assert.Contains(t, appErr.Fields, "longitude")

	input = imageInput(45, 15)
	input.ContentType = "text/plain"
	_, err = env.posts.CreatePost(ctx, userID, input)
	assert.Contains(t, apperr.As(err).Fields, "image")

	input = imageInput(45, 15)
	input.ImageSize = 4096
	_, err = env.posts.CreatePost(ctx, userID, input)
	assert.Contains(t, apperr.As(err).Fields, "image")

	assert.Empty(t, env.images.uploaded)
}

func TestPostUseCase_CreateUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "alice")
	env.images.err = errBroker

	_, err := env.posts.CreatePost(context.Background(), userID, imageInput(45, 15))
	assert.True(t, apperr.Is(err, apperr.KindTransient))
}

func TestPostUseCase_EventFailureDoesNotFailCreate(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "alice")
	env.publisher.err = errBroker

	_, err := env.posts.CreatePost(context.Background(), userID, imageInput(45, 15))
	assert.NoError(t, err)
}

func TestPostUseCase_UpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerID := env.register(t, "alice")
	otherID := env.register(t, "bob")
	postID := env.createPost(t, ownerID, 45, 15)

	_, err := env.posts.UpdatePost(ctx, postID, otherID, UpdatePostInput{Comment: ptr("mine now")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	updated, err := env.posts.UpdatePost(ctx, postID, ownerID, UpdatePostInput{Latitude: ptr(46.0), Longitude: ptr(16.0)})
	require.NoError(t, err)
	assert.Equal(t, 46.0, updated.Latitude)
	assert.Nil(t, updated.Comment)

	got, err := env.posts.GetPost(ctx, postID, "")
	require.NoError(t, err)
	assert.Equal(t, 16.0, got.Longitude)

	_, err = env.posts.UpdatePost(ctx, postID, ownerID, UpdatePostInput{Latitude: ptr(10.0)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.posts.UpdatePost(ctx, "missing", ownerID, UpdatePostInput{Comment: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostUseCase_DeleteCascadesLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerID := env.register(t, "alice")
	otherID := env.register(t, "bob")
	postID := env.createPost(t, ownerID, 45, 15)

	_, err := env.likes.Like(ctx, otherID, postID)
	require.NoError(t, err)

	err = env.posts.DeletePost(ctx, postID, otherID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	count, err := env.likes.CountFor(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.posts.DeletePost(ctx, postID, ownerID))

	_, err = env.posts.GetPost(ctx, postID, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	count, err = env.likes.CountFor(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = env.posts.DeletePost(ctx, postID, ownerID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostUseCase_ListFeedWithLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	first := env.createPost(t, aliceID, 45, 15)
	env.createPost(t, aliceID, 45, 15)

	_, err := env.likes.Like(ctx, bobID, first)
	require.NoError(t, err)

	page, err := env.posts.ListFeed(ctx, entity.PageRequest{Page: 1, Size: 10}, bobID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)

	for _, item := range page.Items {
		require.NotNil(t, item.IsLiked)
		if item.ID == first {
			assert.Equal(t, int64(1), item.LikesCount)
			assert.True(t, *item.IsLiked)
		} else {
			assert.Zero(t, item.LikesCount)
			assert.False(t, *item.IsLiked)
		}
	}

	_, err = env.posts.ListFeed(ctx, entity.PageRequest{Page: 1, Size: 101}, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.posts.ListFeed(ctx, entity.PageRequest{Page: 0, Size: 10}, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPostUseCase_ListByBoundingBox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "alice")
	inside := env.createPost(t, userID, 45, 15)
	env.createPost(t, userID, 45, 25)

	page, err := env.posts.ListByBoundingBox(ctx, entity.BoundingBox{LatMin: 40, LatMax: 50, LonMin: 10, LonMax: 20}, entity.PageRequest{Page: 1, Size: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inside, page.Items[0].ID)

	_, err = env.posts.ListByBoundingBox(ctx, entity.BoundingBox{LatMin: 50, LatMax: 40, LonMin: 10, LonMax: 20}, entity.PageRequest{Page: 1, Size: 10}, "")
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Fields, "lat_min")

	_, err = env.posts.ListByBoundingBox(ctx, entity.BoundingBox{LatMin: 40, LatMax: 50, LonMin: 170, LonMax: -170}, entity.PageRequest{Page: 1, Size: 10}, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPostUseCase_ListNearby(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "alice")
	// Roughly 1.1 km and 22 km north of the query point.
	near := env.createPost(t, userID, 45.01, 15)
	env.createPost(t, userID, 45.2, 15)

	page, err := env.posts.ListNearby(ctx, NearbyQuery{Latitude: 45, Longitude: 15, Radius: 5000}, entity.PageRequest{Page: 1, Size: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, near, page.Items[0].ID)

	page, err = env.posts.ListNearby(ctx, NearbyQuery{Latitude: 45, Longitude: 15, Radius: DefaultNearbyRadius}, entity.PageRequest{Page: 2, Size: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)

	page, err = env.posts.ListNearby(ctx, NearbyQuery{Latitude: 45, Longitude: 15, Radius: DefaultNearbyRadius}, entity.PageRequest{Page: 5, Size: 10}, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = env.posts.ListNearby(ctx, NearbyQuery{Latitude: 45, Longitude: 15, Radius: MaxNearbyRadius + 1}, entity.PageRequest{Page: 1, Size: 10}, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPostUseCase_PageOffsetOverflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "alice")
	env.createPost(t, userID, 45, 15)

	huge := entity.PageRequest{Page: math.MaxInt/2 + 1, Size: 3}

	_, err := env.posts.ListNearby(ctx, NearbyQuery{Latitude: 45, Longitude: 15, Radius: DefaultNearbyRadius}, huge, "")
	require.Error(t, err)
	assert.Equal(t, "is too large", apperr.As(err).Fields["page"])

	_, err = env.posts.ListFeed(ctx, entity.PageRequest{Page: math.MaxInt/4 + 2, Size: 8}, "")
	require.Error(t, err)
	assert.Equal(t, "is too large", apperr.As(err).Fields["page"])

	_, err = env.posts.ListByBoundingBox(ctx, entity.BoundingBox{LatMin: 40, LatMax: 50, LonMin: 10, LonMax: 20}, huge, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.likes.ListLikers(ctx, "00000000-0000-0000-0000-000000000000", huge)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPostUseCase_UserAndLikedPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	postID := env.createPost(t, aliceID, 45, 15)
	env.createPost(t, bobID, 45, 15)

	page, err := env.posts.ListUserPosts(ctx, aliceID, entity.PageRequest{Page: 1, Size: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = env.posts.ListUserPosts(ctx, "00000000-0000-0000-0000-000000000000", entity.PageRequest{Page: 1, Size: 10}, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.likes.Like(ctx, bobID, postID)
	require.NoError(t, err)

	liked, err := env.posts.ListLikedPosts(ctx, bobID, entity.PageRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, liked.Items, 1)
	assert.Equal(t, postID, liked.Items[0].ID)
	require.NotNil(t, liked.Items[0].IsLiked)
	assert.True(t, *liked.Items[0].IsLiked)
}
