package http

import (
	"strconv"
	"strings"

	"geosocial/pkg/apperr"
	"geosocial/pkg/middleware"
	"geosocial/services/geosocial/internal/entity"

	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// pageRequest reads page and size from the query, falling back to page 1 and
// defaultSize. Range checks are left to the use cases.
func pageRequest(c *gin.Context, defaultSize int) (entity.PageRequest, error) {
	fields := map[string]string{}
	page := queryInt(c, "page", 1, fields)
	size := queryInt(c, "size", defaultSize, fields)
	if len(fields) > 0 {
		return entity.PageRequest{}, apperr.Validation("invalid pagination", fields)
	}
	return entity.PageRequest{Page: page, Size: size}, nil
}

func queryInt(c *gin.Context, name string, defaultValue int, fields map[string]string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[name] = "must be an integer"
		return defaultValue
	}
	return v
}

// queryFloat parses a float query parameter. A missing parameter yields nil
// unless required, in which case it is reported in fields.
func queryFloat(c *gin.Context, name string, required bool, fields map[string]string) *float64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		if required {
			fields[name] = "is required"
		}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[name] = "must be a number"
		return nil
	}
	return &v
}

func formFloat(c *gin.Context, name string, fields map[string]string) *float64 {
	raw, ok := c.GetPostForm(name)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[name] = "must be a number"
		return nil
	}
	return &v
}

func malformedBody(err error) error {
	return &apperr.Error{Kind: apperr.KindValidation, Message: "malformed request body", Err: err}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
