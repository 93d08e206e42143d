package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/gitinfo"
	"github.com/thiblahute/pitivi-old/internal/manifest"
)

type repoFixture struct {
	t    *testing.T
	dir  string
	wt   *git.Worktree
	when time.Time
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &repoFixture{
		t:    t,
		dir:  dir,
		wt:   wt,
		when: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *repoFixture) commit(rel, content string, daysLater int) {
	f.t.Helper()
	path := filepath.Join(f.dir, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
	_, err := f.wt.Add(rel)
	require.NoError(f.t, err)

	f.when = f.when.AddDate(0, 0, daysLater)
	sig := &object.Signature{Name: "Tester", Email: "tester@example.org", When: f.when}
	_, err = f.wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(f.t, err)
}

func (f *repoFixture) manifest() *manifest.Manifest {
	return &manifest.Manifest{
		ID:      "pitivi",
		Linguas: []string{"fr"},
		Pages:   []string{"trimming.page", "index.page"},
		HelpDir: f.dir,
	}
}

func TestReportFreshTranslation(t *testing.T) {
	f := newRepoFixture(t)
	f.commit("C/trimming.page", "v1", 0)
	f.commit("C/index.page", "v1", 1)
	f.commit("fr/trimming.page", "v1 fr", 1)
	f.commit("fr/index.page", "v1 fr", 0)

	in, err := gitinfo.NewInspector(f.manifest())
	require.NoError(t, err)
	status, err := in.Report()
	require.NoError(t, err)

	assert.Equal(t, "pitivi", status.HelpID)
	require.Len(t, status.Locales, 1)
	fr := status.Locales[0]
	assert.Equal(t, "fr", fr.Locale)
	assert.Equal(t, "French", fr.Language)
	assert.Equal(t, 2, fr.Translated)
	assert.Equal(t, 0, fr.Stale)
	assert.Equal(t, 0, fr.Missing)
}

func TestReportStaleTranslation(t *testing.T) {
	f := newRepoFixture(t)
	f.commit("C/trimming.page", "v1", 0)
	f.commit("fr/trimming.page", "v1 fr", 1)
	f.commit("C/trimming.page", "v2", 6) // source moved on a week later

	m := f.manifest()
	m.Pages = []string{"trimming.page"}
	in, err := gitinfo.NewInspector(m)
	require.NoError(t, err)
	status, err := in.Report()
	require.NoError(t, err)

	fr := status.Locales[0]
	assert.Equal(t, 1, fr.Translated)
	assert.Equal(t, 1, fr.Stale)

	require.Len(t, fr.Pages, 1)
	ps := fr.Pages[0]
	assert.Equal(t, "trimming", ps.Page)
	assert.True(t, ps.Stale)
	assert.Equal(t, 6, ps.DaysBehind)
	assert.True(t, ps.SourceTime.After(ps.LocaleTime))
}

func TestReportMissingTranslation(t *testing.T) {
	f := newRepoFixture(t)
	f.commit("C/trimming.page", "v1", 0)
	f.commit("C/index.page", "v1", 1)

	in, err := gitinfo.NewInspector(f.manifest())
	require.NoError(t, err)
	status, err := in.Report()
	require.NoError(t, err)

	fr := status.Locales[0]
	assert.Equal(t, 0, fr.Translated)
	assert.Equal(t, 2, fr.Missing)
	for _, ps := range fr.Pages {
		assert.False(t, ps.Translated)
		assert.NotEmpty(t, ps.MissingFile)
	}
}

func TestNewInspectorOutsideRepository(t *testing.T) {
	m := &manifest.Manifest{ID: "x", Pages: []string{"a.page"}, HelpDir: t.TempDir()}
	_, err := gitinfo.NewInspector(m)
	assert.Error(t, err)
}
