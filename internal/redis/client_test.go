package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/talent-api/internal/redis"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, endpoint := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		client, err := redis.NewClient(endpoint, nil)
		require.NoError(t, err)
		assert.NoError(t, client.Ping(context.Background()).Err(), endpoint)
		_ = client.Close()
	}

	_, err := redis.NewClient("", nil)
	assert.Error(t, err)
}
