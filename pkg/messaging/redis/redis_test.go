package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisBrokerRejectsBadURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "not-a-url"}, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestPublishTripsBreaker(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	b := newBroker(client, zerolog.Nop())
	defer b.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.Error(t, b.Publish(ctx, "hms.test", []byte(`{}`)))
	}

	err := b.Publish(ctx, "hms.test", []byte(`{}`))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, gobreaker.StateOpen, b.cb.State())
}
