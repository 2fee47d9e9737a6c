package http

import (
	"net/http"

	"geosocial/pkg/apperr"
	"geosocial/pkg/logger"
	"geosocial/services/geosocial/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase   usecase.AuthUseCase
	maxImageBytes int64
	logger        *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, maxImageBytes int64, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase:   authUseCase,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct-horse"`
	Bio      string `json:"bio"`
}

type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct-horse"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	user, err := h.authUseCase.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Description  Exchange username and password for an access token and a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  entity.TokenPair
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	pair, err := h.authUseCase.Login(c.Request.Context(), usecase.LoginInput{
		Username:   req.Username,
		Password:   req.Password,
		DeviceInfo: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200  {object}  entity.TokenPair
// @Failure      401  {object}  ErrorResponse
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	pair, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout godoc
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LogoutAll godoc
// @Summary      Revoke every refresh token of the current user
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.authUseCase.LogoutAll(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary      Update current user
// @Description  Only the provided fields change
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.UpdateUserInput true "Profile fields"
// @Success      200  {object}  entity.User
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req usecase.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	user, err := h.authUseCase.UpdateUser(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image"
// @Success      200  {object}  entity.User
// @Failure      422  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /me/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, h.logger, apperr.FieldError("avatar", "is required"))
		return
	}
	if h.maxImageBytes > 0 && file.Size > h.maxImageBytes {
		respondError(c, h.logger, apperr.FieldError("avatar", "is too large"))
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !isImage(contentType) {
		respondError(c, h.logger, apperr.FieldError("avatar", "must be an image"))
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, h.logger, apperr.FieldError("avatar", "could not be read"))
		return
	}
	defer src.Close()

	user, err := h.authUseCase.UploadAvatar(c.Request.Context(), currentUserID(c), src, file.Filename, contentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser godoc
// @Summary      Get a public user profile
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  entity.PublicUser
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.authUseCase.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}
