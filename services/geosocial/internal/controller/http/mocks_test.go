package http

import (
	"context"
	"io"

	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input usecase.RegisterInput) (*entity.User, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, input usecase.LoginInput) (*entity.TokenPair, error) {
	args := m.Called(input.Username, input.Password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(refreshToken).Error(0)
}

func (m *MockAuthUseCase) LogoutAll(ctx context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) UpdateUser(ctx context.Context, userID string, input usecase.UpdateUserInput) (*entity.User, error) {
	args := m.Called(userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) UploadAvatar(ctx context.Context, userID string, file io.Reader, filename, contentType string) (*entity.User, error) {
	args := m.Called(userID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, userID string, input usecase.CreatePostInput) (*entity.PostView, error) {
	args := m.Called(userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, postID, viewerID string) (*entity.PostView, error) {
	args := m.Called(postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, postID, userID string, input usecase.UpdatePostInput) (*entity.PostView, error) {
	args := m.Called(postID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	return m.Called(postID, userID).Error(0)
}

func (m *MockPostUseCase) ListFeed(ctx context.Context, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	args := m.Called(page, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) ListByBoundingBox(ctx context.Context, box entity.BoundingBox, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	args := m.Called(box, page, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) ListNearby(ctx context.Context, query usecase.NearbyQuery, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	args := m.Called(query, page, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) ListUserPosts(ctx context.Context, userID string, page entity.PageRequest, viewerID string) (*entity.PostPage, error) {
	args := m.Called(userID, page, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) ListLikedPosts(ctx context.Context, userID string, page entity.PageRequest) (*entity.PostPage, error) {
	args := m.Called(userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

type MockLikeUseCase struct {
	mock.Mock
}

func (m *MockLikeUseCase) Like(ctx context.Context, userID, postID string) (entity.LikeOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.LikeOutcome), args.Error(1)
}

func (m *MockLikeUseCase) Unlike(ctx context.Context, userID, postID string) (entity.LikeOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.LikeOutcome), args.Error(1)
}

func (m *MockLikeUseCase) CountFor(ctx context.Context, postID string) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeUseCase) CountForPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	args := m.Called(postIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockLikeUseCase) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeUseCase) LikedPosts(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	args := m.Called(userID, postIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockLikeUseCase) ListLikers(ctx context.Context, postID string, page entity.PageRequest) (*entity.LikerPage, error) {
	args := m.Called(postID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikerPage), args.Error(1)
}

func (m *MockLikeUseCase) DeleteForPost(ctx context.Context, postID string) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

var _ usecase.LikeUseCase = (*MockLikeUseCase)(nil)
