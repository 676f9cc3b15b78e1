package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstimuli/cadence/pkg/adapters/memory"
	"github.com/openstimuli/cadence/pkg/domain"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	results := domain.Results{"q1": "yes", "q1_rt": 0.8}
	require.NoError(t, store.Save(ctx, "sess-1", results))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, results, loaded)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStore_LoadMissing(t *testing.T) {
	store := memory.NewStore()
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	results := domain.Results{"q1": 1}
	require.NoError(t, store.Save(ctx, "sess-1", results))

	// Mutating the caller's map after Save must not affect the stored copy.
	results["q1"] = 999
	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded["q1"])

	// Mutating a loaded copy must not affect subsequent loads.
	loaded["q1"] = -1
	again, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again["q1"])
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Save(ctx, "a", domain.Results{}))
	require.NoError(t, store.Save(ctx, "b", domain.Results{}))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
