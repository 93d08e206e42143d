package manifest_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/testutil"
)

func TestLoad(t *testing.T) {
	path := testutil.WriteHelpTree(t)

	m, err := manifest.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pitivi", m.ID)
	assert.Equal(t, "Video Editor Help", m.Title)
	assert.Equal(t, []string{"fr"}, m.Linguas)
	assert.Equal(t, []string{"index.page", "trimming.page", "effects.md"}, m.Pages)
	assert.Equal(t, filepath.Dir(path), m.HelpDir)

	// Defaults fill in when the manifest is silent.
	assert.Equal(t, "./html", m.Output.Directory)
	assert.Equal(t, "pitivi.cache.db", m.Output.CacheFile)
	assert.Equal(t, 8080, m.Serve.Port)
}

func TestLoadExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, ".env", []byte("HELP_OUT=/tmp/help-out\n"))
	testutil.WriteFile(t, dir, "help.yaml", []byte(
		"id: demo\npages: [index.page]\noutput:\n  directory: ${HELP_OUT}\n"))

	m, err := manifest.Load(filepath.Join(dir, "help.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/help-out", m.Output.Directory)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*manifest.Manifest)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(m *manifest.Manifest) {},
		},
		{
			name:    "missing id",
			mutate:  func(m *manifest.Manifest) { m.ID = "" },
			wantErr: "missing help id",
		},
		{
			name:    "no pages",
			mutate:  func(m *manifest.Manifest) { m.Pages = nil },
			wantErr: "no pages declared",
		},
		{
			name:    "bad language code",
			mutate:  func(m *manifest.Manifest) { m.Linguas = []string{"not-a-code!"} },
			wantErr: "invalid language code",
		},
		{
			name:    "duplicate lingua",
			mutate:  func(m *manifest.Manifest) { m.Linguas = []string{"fr", "fr"} },
			wantErr: "duplicate language code",
		},
		{
			name:    "duplicate page",
			mutate:  func(m *manifest.Manifest) { m.Pages = []string{"a.page", "a.page"} },
			wantErr: "duplicate page",
		},
		{
			name:    "not a page file",
			mutate:  func(m *manifest.Manifest) { m.Pages = []string{"index.html"} },
			wantErr: "not a page file",
		},
		{
			name:    "bad rebuild interval",
			mutate:  func(m *manifest.Manifest) { m.Serve.RebuildInterval = "soon" },
			wantErr: "invalid rebuild_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &manifest.Manifest{
				ID:      "demo",
				Linguas: []string{"fr", "de"},
				Pages:   []string{"index.page", "extra.md"},
			}
			tt.mutate(m)

			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLocalesOrder(t *testing.T) {
	m := &manifest.Manifest{ID: "demo", Pages: []string{"a.page"}, Linguas: []string{"pt_BR", "de", "fr"}}
	assert.Equal(t, []string{"C", "de", "fr", "pt_BR"}, m.Locales())
}

func TestPageID(t *testing.T) {
	assert.Equal(t, "trimming", manifest.PageID("trimming.page"))
	assert.Equal(t, "effects", manifest.PageID("effects.md"))
}

func TestRebuildEvery(t *testing.T) {
	assert.Equal(t, time.Duration(0), manifest.ServeConfig{}.RebuildEvery())
	assert.Equal(t, 5*time.Minute, manifest.ServeConfig{RebuildInterval: "5m"}.RebuildEvery())
}
