package docset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/testutil"
)

func loadFixture(t *testing.T) *docset.Docset {
	t.Helper()
	m, err := manifest.Load(testutil.WriteHelpTree(t))
	require.NoError(t, err)
	ds, err := docset.Load(m)
	require.NoError(t, err)
	return ds
}

func TestLoad(t *testing.T) {
	ds := loadFixture(t)

	require.Contains(t, ds.Locales, "C")
	require.Contains(t, ds.Locales, "fr")

	src := ds.Source()
	assert.Equal(t, []string{"index", "trimming", "effects"}, src.Order)
	assert.Empty(t, src.Missing)

	fr := ds.Locales["fr"]
	assert.Equal(t, []string{"trimming"}, fr.Order)
	assert.ElementsMatch(t, []string{"index.page", "effects.md"}, fr.Missing)
}

func TestLoadSetsLangAndFile(t *testing.T) {
	ds := loadFixture(t)

	page := ds.Source().Pages["trimming"]
	require.NotNil(t, page)
	assert.Equal(t, "C", page.Lang)
	assert.Equal(t, filepath.Join("C", "trimming.page"), page.File)

	fr := ds.Locales["fr"].Pages["trimming"]
	require.NotNil(t, fr)
	assert.Equal(t, "fr", fr.Lang)
	assert.Equal(t, "Rognage", fr.Title)
}

func TestPageFallback(t *testing.T) {
	ds := loadFixture(t)

	// Own translation.
	page, own := ds.Page("fr", "trimming")
	require.NotNil(t, page)
	assert.True(t, own)
	assert.Equal(t, "fr", page.Lang)

	// Missing translation falls back to the source copy.
	page, own = ds.Page("fr", "index")
	require.NotNil(t, page)
	assert.False(t, own)
	assert.Equal(t, "C", page.Lang)

	// Undeclared page.
	page, own = ds.Page("fr", "nope")
	assert.Nil(t, page)
	assert.False(t, own)
}

func TestFigurePathFallback(t *testing.T) {
	ds := loadFixture(t)
	helpDir := ds.Manifest.HelpDir

	// No fr figure: the source copy resolves.
	path := ds.FigurePath("fr", "figures/ripple-before.png")
	assert.Equal(t, filepath.Join(helpDir, "C", "figures", "ripple-before.png"), path)

	// A locale override wins.
	override := testutil.WriteFile(t, helpDir, "fr/figures/ripple-before.png", []byte("png"))
	path = ds.FigurePath("fr", "figures/ripple-before.png")
	assert.Equal(t, override, path)
}

func TestLoadFailsOnBrokenPage(t *testing.T) {
	manifestPath := testutil.WriteHelpTree(t)
	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	broken := filepath.Join(m.HelpDir, "C", "trimming.page")
	require.NoError(t, os.WriteFile(broken, []byte("<page><unclosed"), 0o644))

	_, err = docset.Load(m)
	assert.Error(t, err)
}
