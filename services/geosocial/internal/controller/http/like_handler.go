package http

import (
	"net/http"

	"geosocial/pkg/logger"
	"geosocial/services/geosocial/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeUseCase     usecase.LikeUseCase
	defaultPageSize int
	logger          *logger.Logger
}

func NewLikeHandler(likeUseCase usecase.LikeUseCase, defaultPageSize int, logger *logger.Logger) *LikeHandler {
	return &LikeHandler{
		likeUseCase:     likeUseCase,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// LikePost godoc
// @Summary      Like a post
// @Description  Idempotent: liking an already liked post also succeeds
// @Tags         likes
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
func (h *LikeHandler) LikePost(c *gin.Context) {
	if _, err := h.likeUseCase.Like(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnlikePost godoc
// @Summary      Remove a like
// @Description  Idempotent: unliking a post that is not liked also succeeds
// @Tags         likes
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /posts/{id}/like [delete]
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	if _, err := h.likeUseCase.Unlike(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListLikes godoc
// @Summary      List who liked a post
// @Tags         likes
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.LikerPage
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/likes [get]
func (h *LikeHandler) ListLikes(c *gin.Context) {
	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.likeUseCase.ListLikers(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
