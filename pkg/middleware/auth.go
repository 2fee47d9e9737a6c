package middleware

import (
	"errors"
	"net/http"

	"geosocial/pkg/apperr"
	"geosocial/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	ContextUserID       = "user_id"
	ContextUsername     = "username"
)

// AuthMiddleware rejects requests without a valid bearer credential and puts
// the token subject into the gin context.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthorizationHeader)
		if header == "" {
			abortUnauthenticated(c, "authorization header required")
			return
		}

		claims, err := jwtService.ValidateHeader(header)
		if err != nil {
			abortUnauthenticated(c, reason(err))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid credential is
// present. Missing or unusable credentials leave the request anonymous.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(AuthorizationHeader); header != "" {
			if claims, err := jwtService.ValidateHeader(header); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
			}
		}
		c.Next()
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrMalformedCredential):
		return jwt.ErrMalformedCredential.Error()
	case errors.Is(err, jwt.ErrExpiredCredential):
		return "token has expired"
	default:
		return "invalid token"
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", jwt.BearerScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   apperr.KindUnauthenticated,
		"message": message,
	})
}
