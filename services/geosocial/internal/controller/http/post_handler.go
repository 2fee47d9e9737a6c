package http

import (
	"net/http"

	"geosocial/pkg/apperr"
	"geosocial/pkg/logger"
	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase     usecase.PostUseCase
	defaultPageSize int
	logger          *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, defaultPageSize int, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase:     postUseCase,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Upload an image anchored to a latitude/longitude
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Image file"
// @Param        comment formData string false "Comment"
// @Param        latitude formData number true "Latitude (-90..90)"
// @Param        longitude formData number true "Longitude (-180..180)"
// @Success      201  {object}  entity.PostView
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	fields := map[string]string{}
	input := usecase.CreatePostInput{
		Latitude:  formFloat(c, "latitude", fields),
		Longitude: formFloat(c, "longitude", fields),
	}
	if comment, ok := c.GetPostForm("comment"); ok {
		input.Comment = &comment
	}
	if len(fields) > 0 {
		respondError(c, h.logger, apperr.Validation("invalid post", fields))
		return
	}

	file, err := c.FormFile("image")
	if err == nil {
		src, openErr := file.Open()
		if openErr != nil {
			respondError(c, h.logger, apperr.FieldError("image", "could not be read"))
			return
		}
		defer src.Close()

		input.Image = src
		input.ImageName = file.Filename
		input.ImageSize = file.Size
		input.ContentType = file.Header.Get("Content-Type")
	}

	view, err := h.postUseCase.CreatePost(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetPost godoc
// @Summary      Get a post
// @Description  is_liked is present when the request carries a valid bearer token
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.PostView
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	view, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListFeed godoc
// @Summary      List the feed
// @Description  Newest first
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.PostPage
// @Failure      422  {object}  ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) ListFeed(c *gin.Context) {
	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.postUseCase.ListFeed(c.Request.Context(), page, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MapQuery godoc
// @Summary      List posts inside a bounding box
// @Description  Bounds are inclusive. Boxes crossing the 180th meridian are rejected.
// @Tags         posts
// @Produce      json
// @Param        lat_min query number true "Southern bound"
// @Param        lat_max query number true "Northern bound"
// @Param        lon_min query number true "Western bound"
// @Param        lon_max query number true "Eastern bound"
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.PostPage
// @Failure      422  {object}  ErrorResponse
// @Router       /posts/map [get]
func (h *PostHandler) MapQuery(c *gin.Context) {
	fields := map[string]string{}
	latMin := queryFloat(c, "lat_min", true, fields)
	latMax := queryFloat(c, "lat_max", true, fields)
	lonMin := queryFloat(c, "lon_min", true, fields)
	lonMax := queryFloat(c, "lon_max", true, fields)
	if len(fields) > 0 {
		respondError(c, h.logger, apperr.Validation("invalid bounding box", fields))
		return
	}

	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	box := entity.BoundingBox{LatMin: *latMin, LatMax: *latMax, LonMin: *lonMin, LonMax: *lonMax}
	result, err := h.postUseCase.ListByBoundingBox(c.Request.Context(), box, page, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Nearby godoc
// @Summary      List posts within a radius
// @Tags         posts
// @Produce      json
// @Param        lat query number true "Latitude"
// @Param        lon query number true "Longitude"
// @Param        radius query number false "Radius in meters (default 30000, max 500000)"
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.PostPage
// @Failure      422  {object}  ErrorResponse
// @Router       /posts/nearby [get]
func (h *PostHandler) Nearby(c *gin.Context) {
	fields := map[string]string{}
	lat := queryFloat(c, "lat", true, fields)
	lon := queryFloat(c, "lon", true, fields)
	radius := queryFloat(c, "radius", false, fields)
	if len(fields) > 0 {
		respondError(c, h.logger, apperr.Validation("invalid location", fields))
		return
	}

	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	query := usecase.NearbyQuery{Latitude: *lat, Longitude: *lon, Radius: usecase.DefaultNearbyRadius}
	if radius != nil {
		query.Radius = *radius
	}

	result, err := h.postUseCase.ListNearby(c.Request.Context(), query, page, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Owner only. Latitude and longitude change together.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.UpdatePostInput true "Fields to change"
// @Success      200  {object}  entity.PostView
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req usecase.UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, malformedBody(err))
		return
	}

	view, err := h.postUseCase.UpdatePost(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Owner only. Removes the post's likes as well.
// @Tags         posts
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.DeletePost(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUserPosts godoc
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Param        id path string true "User ID"
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.PostPage
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.postUseCase.ListUserPosts(c.Request.Context(), c.Param("id"), page, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListLikedPosts godoc
// @Summary      List posts the current user liked
// @Description  Most recent like first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page (from 1)"
// @Param        size query int false "Page size"
// @Success      200  {object}  entity.PostPage
// @Router       /me/likes [get]
func (h *PostHandler) ListLikedPosts(c *gin.Context) {
	page, err := pageRequest(c, h.defaultPageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.postUseCase.ListLikedPosts(c.Request.Context(), currentUserID(c), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
