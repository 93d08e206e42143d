package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/cache"
	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/testutil"
)

func buildCache(t *testing.T) (*cache.Store, *docset.Docset) {
	t.Helper()
	m, err := manifest.Load(testutil.WriteHelpTree(t))
	require.NoError(t, err)
	ds, err := docset.Load(m)
	require.NoError(t, err)

	store, err := cache.Open(filepath.Join(t.TempDir(), "help.cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	count, err := store.Rebuild(context.Background(), ds)
	require.NoError(t, err)
	// 3 source pages + 1 fr translation.
	require.Equal(t, 4, count)
	return store, ds
}

func TestRebuildAndQuery(t *testing.T) {
	store, _ := buildCache(t)
	ctx := context.Background()

	n, err := store.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	entry, err := store.Page(ctx, "C", "trimming")
	require.NoError(t, err)
	assert.Equal(t, "Trimming", entry.Title)
	assert.Equal(t, "Shortening clips by moving their edit points.", entry.Desc)
	assert.Equal(t, "Creative Commons Share Alike 3.0", entry.License)
	assert.Len(t, entry.SHA256, 64)
	assert.NotZero(t, entry.MTime)

	fr, err := store.Page(ctx, "fr", "trimming")
	require.NoError(t, err)
	assert.Equal(t, "Rognage", fr.Title)
	assert.NotEqual(t, entry.SHA256, fr.SHA256)

	_, err = store.Page(ctx, "C", "ghost")
	assert.Error(t, err)
}

func TestXrefsTo(t *testing.T) {
	store, _ := buildCache(t)

	ids, err := store.XrefsTo(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, []string{"effects", "trimming"}, ids)
}

func TestMeta(t *testing.T) {
	store, _ := buildCache(t)

	helpID, err := store.Meta(context.Background(), "help_id")
	require.NoError(t, err)
	assert.Equal(t, "pitivi", helpID)
}

func TestRebuildReplacesPreviousContents(t *testing.T) {
	store, ds := buildCache(t)
	ctx := context.Background()

	count, err := store.Rebuild(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	n, err := store.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
