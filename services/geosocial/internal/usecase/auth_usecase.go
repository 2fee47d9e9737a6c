package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"geosocial/pkg/apperr"
	"geosocial/pkg/jwt"
	"geosocial/pkg/logger"
	"geosocial/pkg/validation"
	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"
	"geosocial/services/geosocial/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const TokenTypeBearer = "bearer"

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Bio      string `json:"bio" validate:"max=500"`
}

type LoginInput struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	DeviceInfo string `json:"-"`
}

type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input LoginInput) (*entity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (*entity.User, error)
	UploadAvatar(ctx context.Context, userID string, file io.Reader, filename, contentType string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	tokenRepo  persistent.RefreshTokenRepository
	jwtService *jwt.Service
	imageStore ImageStore
	refreshTTL time.Duration
	logger     *logger.Logger
	now        func() time.Time
	hashPasswd func(password string) (string, error)
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	tokenRepo persistent.RefreshTokenRepository,
	jwtService *jwt.Service,
	imageStore ImageStore,
	refreshTTL time.Duration,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		imageStore: imageStore,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		hashPasswd: hashPassword,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.FieldError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func passwordError(err error, message string) error {
	if apperr.Is(err, apperr.KindValidation) {
		return err
	}
	return apperr.Internal(message, err)
}

func (uc *authUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := uc.ensureAvailable(ctx, "", &input.Username, &input.Email); err != nil {
		return nil, err
	}

	hashed, err := uc.hashPasswd(input.Password)
	if err != nil {
		return nil, passwordError(err, "failed to register user")
	}

	user := &entity.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Bio:      input.Bio,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, uc.classifyDuplicate(ctx, err, "", &input.Username, &input.Email)
	}

	uc.logger.Info("User registered: id=%s username=%s", user.ID, user.Username)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, input LoginInput) (*entity.TokenPair, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, invalidCredentials()
	}

	return uc.issueTokens(ctx, user, input.DeviceInfo)
}

func invalidCredentials() error {
	return apperr.Unauthenticated(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperr.FieldError("refresh_token", "is required")
	}

	consumed, err := uc.tokenRepo.Consume(ctx, jwt.HashRefreshToken(refreshToken), uc.now())
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid or expired refresh token", jwt.ErrInvalidCredential)
		}
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, consumed.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid or expired refresh token", jwt.ErrInvalidCredential)
		}
		return nil, err
	}

	return uc.issueTokens(ctx, user, consumed.DeviceInfo)
}

func (uc *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperr.FieldError("refresh_token", "is required")
	}
	_, err := uc.tokenRepo.Revoke(ctx, jwt.HashRefreshToken(refreshToken), uc.now())
	return err
}

func (uc *authUseCase) LogoutAll(ctx context.Context, userID string) error {
	revoked, err := uc.tokenRepo.RevokeAllForUser(ctx, userID, uc.now())
	if err != nil {
		return err
	}
	uc.logger.Info("Revoked %d refresh tokens for user %s", revoked, userID)
	return nil
}

func (uc *authUseCase) issueTokens(ctx context.Context, user *entity.User, deviceInfo string) (*entity.TokenPair, error) {
	accessToken, err := uc.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}

	refreshToken, refreshHash, err := jwt.GenerateRefreshToken()
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}

	record := &entity.RefreshToken{
		UserID:     user.ID,
		TokenHash:  refreshHash,
		DeviceInfo: deviceInfo,
		ExpiresAt:  uc.now().Add(uc.refreshTTL),
	}
	if err := uc.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(uc.jwtService.TTL().Seconds()),
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (*entity.User, error) {
	if input.Username != nil {
		trimmed := strings.TrimSpace(*input.Username)
		input.Username = &trimmed
	}
	if input.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &normalized
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	patch := entity.UserPatch{
		Username: input.Username,
		Email:    input.Email,
		Bio:      input.Bio,
	}
	if input.Password != nil {
		hashed, err := uc.hashPasswd(*input.Password)
		if err != nil {
			return nil, passwordError(err, "failed to update user")
		}
		patch.Password = &hashed
	}
	if patch.Empty() {
		return uc.userRepo.GetByID(ctx, userID)
	}

	if err := uc.ensureAvailable(ctx, userID, patch.Username, patch.Email); err != nil {
		return nil, err
	}

	if err := uc.userRepo.Update(ctx, userID, patch); err != nil {
		return nil, uc.classifyDuplicate(ctx, err, userID, patch.Username, patch.Email)
	}
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) UploadAvatar(ctx context.Context, userID string, file io.Reader, filename, contentType string) (*entity.User, error) {
	if uc.imageStore == nil {
		return nil, apperr.Transient("image storage is unavailable", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New().String(), strings.ToLower(path.Ext(filename)))
	url, err := uc.imageStore.UploadFile(ctx, key, file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar for user %s: %v", userID, err)
		return nil, apperr.Transient("failed to store image", err)
	}

	if err := uc.userRepo.Update(ctx, userID, entity.UserPatch{AvatarURL: &url}); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// ensureAvailable rejects a username or email held by a user other than
// selfID. The unique indexes still decide races; this only produces the
// friendlier error in the common case.
func (uc *authUseCase) ensureAvailable(ctx context.Context, selfID string, username, email *string) error {
	if username != nil {
		existing, err := uc.userRepo.GetByUsername(ctx, *username)
		if err == nil && existing.ID != selfID {
			return usernameTaken()
		}
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return err
		}
	}
	if email != nil {
		existing, err := uc.userRepo.GetByEmail(ctx, *email)
		if err == nil && existing.ID != selfID {
			return emailTaken()
		}
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return err
		}
	}
	return nil
}

// classifyDuplicate turns a unique violation into a field-specific conflict,
// using the violated index when the driver reports it.
func (uc *authUseCase) classifyDuplicate(ctx context.Context, err error, selfID string, username, email *string) error {
	var dup *persistent.DuplicateError
	if !errors.As(err, &dup) {
		return err
	}

	switch dup.Constraint {
	case model.UsersUsernameIndex:
		return usernameTaken()
	case model.UsersEmailIndex:
		return emailTaken()
	}

	if conflict := uc.ensureAvailable(ctx, selfID, username, email); conflict != nil && apperr.Is(conflict, apperr.KindConflict) {
		return conflict
	}
	return usernameTaken()
}

func usernameTaken() error {
	return apperr.Conflict(ErrUsernameTaken.Error(), "username", ErrUsernameTaken)
}

func emailTaken() error {
	return apperr.Conflict(ErrEmailTaken.Error(), "email", ErrEmailTaken)
}
