package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geosocial/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware_NoRedis(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(nil, nil, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

// scriptedRedis answers commands in-process: INCR returns count and EXPIRE
// fails with expireErr when set. Deleted keys are recorded.
type scriptedRedis struct {
	count     int64
	expireErr error
	deleted   []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch cmd.Name() {
		case "incr":
			cmd.(*redis.IntCmd).SetVal(h.count)
		case "expire":
			if h.expireErr != nil {
				cmd.SetErr(h.expireErr)
				return h.expireErr
			}
			cmd.(*redis.BoolCmd).SetVal(true)
		case "del":
			h.deleted = append(h.deleted, fmt.Sprint(cmd.Args()[1]))
			cmd.(*redis.IntCmd).SetVal(1)
		}
		return nil
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func scriptedClient(t *testing.T, h *scriptedRedis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(h)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRateLimitMiddleware_ExpireFailureDropsCounter(t *testing.T) {
	h := &scriptedRedis{count: 1, expireErr: errors.New("READONLY")}
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(scriptedClient(t, h), logger.NewWithWriter(io.Discard, io.Discard), 5, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, h.deleted, 1)
	assert.True(t, strings.HasPrefix(h.deleted[0], "rate_limit:/test:"))
}

func TestRateLimitMiddleware_OverLimit(t *testing.T) {
	h := &scriptedRedis{count: 4}
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(scriptedClient(t, h), nil, 3, time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Empty(t, h.deleted)
}
