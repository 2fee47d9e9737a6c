package queue

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"geosocial/pkg/config"
	"geosocial/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRabbitMQClient_Unreachable(t *testing.T) {
	cfg := &config.Config{
		RabbitMQHost:     "127.0.0.1",
		RabbitMQPort:     "1",
		RabbitMQUser:     "guest",
		RabbitMQPassword: "guest",
	}

	client, err := NewRabbitMQClient(cfg, logger.NewWithWriter(io.Discard, io.Discard))

	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}

func TestClose_WithoutConnection(t *testing.T) {
	assert.NoError(t, (&Client{}).Close())
}

func TestEvent_JSONShape(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body, err := json.Marshal(Event{
		Type:       "post.liked",
		OccurredAt: occurred,
		Data:       map[string]interface{}{"post_id": "p-1"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"post.liked","occurred_at":"2024-05-01T12:00:00Z","data":{"post_id":"p-1"}}`, string(body))
}
