package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/adapters/redis"
	"github.com/openstimuli/cadence/pkg/domain"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "sess-1", domain.Results{"q1": "yes", "q1_rt": 0.8}))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	// Values survive a JSON round trip, so numbers come back as float64.
	assert.Equal(t, domain.Results{"q1": "yes", "q1_rt": 0.8}, loaded)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Load(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStore_KeyPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("default prefix", func(t *testing.T) {
		store, mr := newTestStore(t)
		require.NoError(t, store.Save(ctx, "sess-1", domain.Results{}))
		assert.True(t, mr.Exists("cadence:results:sess-1"))
	})

	t.Run("custom prefix", func(t *testing.T) {
		store, mr := newTestStore(t, redis.WithPrefix("lab:"))
		require.NoError(t, store.Save(ctx, "sess-1", domain.Results{}))
		assert.True(t, mr.Exists("lab:sess-1"))
		assert.False(t, mr.Exists("cadence:results:sess-1"))
	})
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))

	require.NoError(t, store.Save(ctx, "sess-1", domain.Results{"q1": true}))
	assert.Equal(t, time.Minute, mr.TTL("cadence:results:sess-1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStore_OverwriteReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "sess-1", domain.Results{"q1": "first", "old": 1}))
	require.NoError(t, store.Save(ctx, "sess-1", domain.Results{"q1": "second"}))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Results{"q1": "second"}, loaded)
}
