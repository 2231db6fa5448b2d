package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/config"
	duelredis "github.com/cory-johannsen/duel/internal/storage/redis"
)

// NewRedis starts an in-memory Redis server and returns a client connected to it.
//
// Postcondition: The server is closed when the test ends.
func NewRedis(t *testing.T) (duelredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := duelredis.NewClient(config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err, "failed to create redis client")
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
