package http

import (
	"net/http"

	"geosocial/pkg/apperr"
	"geosocial/pkg/jwt"
	"geosocial/pkg/logger"

	"github.com/gin-gonic/gin"
)

const internalMessage = "internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func statusFor(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindValidation:
		if len(e.Fields) > 0 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the only place use case errors become HTTP responses.
// Internal faults are logged and replaced by a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	e := apperr.As(err)
	status := statusFor(e)

	body := ErrorResponse{Error: string(e.Kind), Message: e.Message, Fields: e.Fields}
	switch e.Kind {
	case apperr.KindUnauthenticated:
		c.Header("WWW-Authenticate", jwt.BearerScheme)
	case apperr.KindTransient:
		c.Header("Retry-After", "1")
		log.Warn("%s %s: %v", c.Request.Method, c.FullPath(), err)
	case apperr.KindValidation, apperr.KindForbidden, apperr.KindNotFound, apperr.KindConflict:
	default:
		log.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		body = ErrorResponse{Error: string(apperr.KindInternal), Message: internalMessage}
	}

	c.AbortWithStatusJSON(status, body)
}
