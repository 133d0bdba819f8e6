package credential

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncedStore(t *testing.T) (*MemoryBackend, *Store) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	origin, err := url.Parse("http://backend.local")
	require.NoError(t, err)

	backend := NewMemoryBackend()
	return backend, NewStore(backend, NewCookieProjection(jar, origin, false), discardLogger())
}

func TestSynchronizerProjectsBackendWrites(t *testing.T) {
	backend, store := newSyncedStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sync := NewSynchronizer(store, 10*time.Millisecond, discardLogger())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sync.Run(ctx)
	}()

	require.NoError(t, backend.Save(context.Background(), "tok-sync"))

	assert.Eventually(t, func() bool {
		cookie, ok := store.Cookie()
		return ok && cookie == "tok-sync"
	}, time.Second, 5*time.Millisecond, "cookie never caught up with backend write")

	require.NoError(t, backend.Clear(context.Background()))

	assert.Eventually(t, func() bool {
		_, ok := store.Cookie()
		return !ok
	}, time.Second, 5*time.Millisecond, "cookie survived backend clear")

	cancel()
	<-done
}

func TestSynchronizerStopsOnCancel(t *testing.T) {
	_, store := newSyncedStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	sync := NewSynchronizer(store, time.Hour, discardLogger())

	errCh := make(chan error, 1)
	go func() { errCh <- sync.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("synchronizer did not stop on cancel")
	}
}
