package credential

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/pkg/platform/sentinel"
)

// An unreachable server must surface as ErrUnavailable, not as "no token",
// so the store can tell a missing credential from a broken backing store.
func TestRedisBackendUnreachableServerIsUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	backend := NewRedisBackend(client)
	ctx := context.Background()

	_, err := backend.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.NotErrorIs(t, err, sentinel.ErrNotFound)

	assert.ErrorIs(t, backend.Save(ctx, "tok-doomed"), sentinel.ErrUnavailable)
	assert.ErrorIs(t, backend.Clear(ctx), sentinel.ErrUnavailable)
}
