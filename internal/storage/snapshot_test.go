package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/common"
)

func TestSnapshotManager_CreateAndList(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sym := mustSymbol(t, store, "a")
	mustSample(t, store, sym.ID, lineData)

	mgr, err := store.Snapshots()
	require.NoError(t, err)

	info, err := mgr.Create(ctx, "before-import", "manual")
	require.NoError(t, err)
	assert.Equal(t, 1, info.Symbols)
	assert.Equal(t, 1, info.Samples)
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.Positive(t, info.FileSize)
	assert.False(t, info.IsAuto)

	_, err = mgr.Create(ctx, "before-import", "again")
	assert.ErrorIs(t, err, ErrSnapshotExists)

	_, err = mgr.Create(ctx, "../escape", "")
	assert.ErrorIs(t, err, ErrInvalidTag)

	time.Sleep(10 * time.Millisecond)
	_, err = mgr.Create(ctx, "", "default tag")
	require.NoError(t, err)

	list, err := mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "default tag", list[0].Description)

	got, err := mgr.Get(ctx, "before-import")
	require.NoError(t, err)
	assert.Equal(t, "manual", got.Description)
}

func TestSnapshotManager_Restore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sym := mustSymbol(t, store, "a")
	mustSample(t, store, sym.ID, lineData)

	mgr, err := store.Snapshots()
	require.NoError(t, err)
	_, err = mgr.Create(ctx, "one-sample", "")
	require.NoError(t, err)

	mustSample(t, store, sym.ID, crossData)
	n, err := store.CountSamples(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, mgr.Restore(ctx, "one-sample"))

	n, err = store.CountSamples(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(store.Path() + ".restore-backup")
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, mgr.Restore(ctx, "missing"), ErrSnapshotNotFound)
}

func TestSnapshotManager_DeleteAndPrune(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	mgr, err := store.Snapshots()
	require.NoError(t, err)

	_, err = mgr.Create(ctx, "manual", "")
	require.NoError(t, err)

	for i := 0; i < maxAutoSnapshots+2; i++ {
		_, err := mgr.Auto(ctx, "import")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	list, err := mgr.List(ctx)
	require.NoError(t, err)

	auto := 0
	for _, s := range list {
		if s.IsAuto {
			auto++
		}
	}
	assert.Equal(t, maxAutoSnapshots, auto)
	assert.Len(t, list, maxAutoSnapshots+1)

	require.NoError(t, mgr.Delete(ctx, "manual"))
	assert.ErrorIs(t, mgr.Delete(ctx, "manual"), ErrSnapshotNotFound)
	_, err = mgr.Get(ctx, "manual")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestTranslateError_PassesThroughForeignErrors(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.Equal(t, common.ErrNotFound, translateError(common.ErrNotFound))
}
