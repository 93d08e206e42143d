// Package gitinfo reports translation staleness from git history: a
// localized page is stale when its source copy was committed after it.
package gitinfo

import (
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/thiblahute/pitivi-old/internal/errors"
	"github.com/thiblahute/pitivi-old/internal/manifest"
)

// PageStatus describes one localized page relative to its source copy.
type PageStatus struct {
	Page        string    `json:"page"`
	Translated  bool      `json:"translated"`
	Stale       bool      `json:"stale"`
	SourceTime  time.Time `json:"source_time,omitempty"`
	LocaleTime  time.Time `json:"locale_time,omitempty"`
	DaysBehind  int       `json:"days_behind,omitempty"`
	MissingFile string    `json:"missing_file,omitempty"`
}

// LocaleStatus aggregates the page statuses for one language.
type LocaleStatus struct {
	Locale     string       `json:"locale"`
	Language   string       `json:"language"`
	Translated int          `json:"translated"`
	Stale      int          `json:"stale"`
	Missing    int          `json:"missing"`
	Pages      []PageStatus `json:"pages"`
}

// Status holds the full translation report for a help tree.
type Status struct {
	HelpID  string         `json:"help_id"`
	Locales []LocaleStatus `json:"locales"`
}

// Inspector reads commit history for files under a help tree.
type Inspector struct {
	repo    *git.Repository
	m       *manifest.Manifest
	relHelp string // help dir relative to repository root, slash-separated
}

// NewInspector opens the repository enclosing the manifest's help directory.
func NewInspector(m *manifest.Manifest) (*Inspector, error) {
	repo, err := git.PlainOpenWithOptions(m.HelpDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.SeverityFatal, "open git repository")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.SeverityFatal, "resolve worktree")
	}
	absHelp, err := filepath.Abs(m.HelpDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "resolve help directory")
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), absHelp)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.SeverityFatal, "relate help directory to repository root")
	}

	return &Inspector{repo: repo, m: m, relHelp: filepath.ToSlash(rel)}, nil
}

// Report computes the translation status of every lingua in the manifest.
func (in *Inspector) Report() (*Status, error) {
	status := &Status{HelpID: in.m.ID}

	linguas := append([]string(nil), in.m.Linguas...)
	sort.Strings(linguas)

	for _, lingua := range linguas {
		ls := LocaleStatus{Locale: lingua, Language: languageName(lingua)}
		for _, pageFile := range in.m.Pages {
			ps, err := in.pageStatus(lingua, pageFile)
			if err != nil {
				return nil, err
			}
			switch {
			case !ps.Translated:
				ls.Missing++
			case ps.Stale:
				ls.Stale++
				ls.Translated++
			default:
				ls.Translated++
			}
			ls.Pages = append(ls.Pages, ps)
		}
		status.Locales = append(status.Locales, ls)
	}
	return status, nil
}

func (in *Inspector) pageStatus(lingua, pageFile string) (PageStatus, error) {
	ps := PageStatus{Page: manifest.PageID(pageFile)}

	srcPath := path.Join(in.relHelp, manifest.SourceLocale, pageFile)
	locPath := path.Join(in.relHelp, lingua, pageFile)

	srcTime, srcOK, err := in.lastCommitTime(srcPath)
	if err != nil {
		return ps, err
	}
	locTime, locOK, err := in.lastCommitTime(locPath)
	if err != nil {
		return ps, err
	}

	if !locOK {
		ps.MissingFile = locPath
		return ps, nil
	}
	ps.Translated = true
	ps.LocaleTime = locTime
	if srcOK {
		ps.SourceTime = srcTime
		if srcTime.After(locTime) {
			ps.Stale = true
			ps.DaysBehind = int(srcTime.Sub(locTime).Hours() / 24)
		}
	}
	return ps, nil
}

// lastCommitTime returns the committer time of the most recent commit
// touching the given repository-relative path.
func (in *Inspector) lastCommitTime(relPath string) (time.Time, bool, error) {
	iter, err := in.repo.Log(&git.LogOptions{
		FileName: &relPath,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, errors.CategoryGit, errors.SeverityError, "read commit log").
			WithContext("path", relPath)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// No commit touches the path: untracked or never committed.
		return time.Time{}, false, nil
	}
	return commitTime(commit), true, nil
}

func commitTime(c *object.Commit) time.Time {
	return c.Committer.When.UTC()
}

// languageName renders a human-readable English name for a locale code,
// falling back to the raw code when it does not parse.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return display.English.Tags().Name(tag)
}
