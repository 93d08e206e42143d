package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/export"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/render"
	"github.com/thiblahute/pitivi-old/internal/testutil"
)

func TestRunConvertsRenderedTree(t *testing.T) {
	m, err := manifest.Load(testutil.WriteHelpTree(t))
	require.NoError(t, err)
	ds, err := docset.Load(m)
	require.NoError(t, err)

	htmlDir := t.TempDir()
	r, err := render.NewRenderer(ds, htmlDir)
	require.NoError(t, err)
	_, err = r.RenderAll(context.Background())
	require.NoError(t, err)

	exportDir := t.TempDir()
	stats, err := export.Run(context.Background(), htmlDir, exportDir)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Pages)

	data, err := os.ReadFile(filepath.Join(exportDir, "C", "trimming.md"))
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "Trimming")
	assert.Contains(t, md, "Ripple editing")
	assert.NotContains(t, md, "<article>")

	// Layout mirrors the locale directories.
	_, err = os.Stat(filepath.Join(exportDir, "fr", "trimming.md"))
	assert.NoError(t, err)
}

func TestRunSkipsNonHTML(t *testing.T) {
	htmlDir := t.TempDir()
	testutil.WriteFile(t, htmlDir, "style.css", []byte("body{}"))
	testutil.WriteFile(t, htmlDir, "C/page.html", []byte("<html><body><h1>T</h1></body></html>"))

	exportDir := t.TempDir()
	stats, err := export.Run(context.Background(), htmlDir, exportDir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pages)

	_, err = os.Stat(filepath.Join(exportDir, "style.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunHonorsContextCancel(t *testing.T) {
	htmlDir := t.TempDir()
	testutil.WriteFile(t, htmlDir, "C/page.html", []byte("<html></html>"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := export.Run(ctx, htmlDir, t.TempDir())
	assert.Error(t, err)
}
