package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geosocial/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func protectedRouter(jwtService *jwt.Service) *gin.Engine {
	router := setupTestRouter()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	return router
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key", time.Hour)
	token, _ := jwtService.GenerateToken("user-123", "alice")

	w := serve(protectedRouter(jwtService), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "user-123", body["user_id"])
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key", time.Hour)

	w := serve(protectedRouter(jwtService), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key", time.Hour)

	w := serve(protectedRouter(jwtService), "InvalidFormat token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "unauthenticated", body["error"])
	assert.Equal(t, jwt.ErrMalformedCredential.Error(), body["message"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key", time.Hour)

	w := serve(protectedRouter(jwtService), "Bearer invalid-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "invalid token", body["message"])
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	issuer := jwt.NewService("test-secret-key", -time.Minute)
	token, _ := issuer.GenerateToken("user-123", "alice")

	w := serve(protectedRouter(jwt.NewService("test-secret-key", time.Hour)), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	assert.Equal(t, "token has expired", body["message"])
}

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key", time.Hour)
	token, _ := jwtService.GenerateToken("user-123", "alice")

	router := setupTestRouter()
	router.Use(OptionalAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})

	for header, want := range map[string]string{
		"":                     "",
		"Bearer " + token:      "user-123",
		"Bearer invalid-token": "",
	} {
		w := serve(router, header)
		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		json.Unmarshal(w.Body.Bytes(), &body)
		assert.Equal(t, want, body["user_id"], "header %q", header)
	}
}
