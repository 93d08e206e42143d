// Package docset assembles the manifest and the per-locale page trees into
// one loaded documentation set.
package docset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thiblahute/pitivi-old/internal/logfields"
	"github.com/thiblahute/pitivi-old/internal/mallard"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/markdown"
)

// Docset is a fully loaded documentation set: the manifest plus one PageSet
// per locale (the source locale "C" first).
type Docset struct {
	Manifest *manifest.Manifest
	Locales  map[string]*PageSet
}

// PageSet holds the parsed pages of one locale directory.
type PageSet struct {
	Locale string
	Pages  map[string]*mallard.Page
	// Order lists the page ids present, in manifest declaration order.
	Order []string
	// Missing lists declared page files with no copy in this locale.
	Missing []string
}

// Load parses every declared page of every locale. Pages that fail to parse
// abort the load; pages missing from a translated locale are recorded, not
// fatal (translation completeness is the validator's business).
func Load(m *manifest.Manifest) (*Docset, error) {
	ds := &Docset{
		Manifest: m,
		Locales:  make(map[string]*PageSet, len(m.Linguas)+1),
	}
	for _, locale := range m.Locales() {
		ps, err := loadLocale(m, locale)
		if err != nil {
			return nil, err
		}
		ds.Locales[locale] = ps
	}
	return ds, nil
}

func loadLocale(m *manifest.Manifest, locale string) (*PageSet, error) {
	ps := &PageSet{
		Locale: locale,
		Pages:  make(map[string]*mallard.Page, len(m.Pages)),
	}
	dir := m.LocaleDir(locale)

	for _, file := range m.Pages {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			ps.Missing = append(ps.Missing, file)
			continue
		}

		var page *mallard.Page
		var err error
		if filepath.Ext(file) == ".md" {
			page, err = markdown.ParseFile(path)
		} else {
			page, err = mallard.ParseFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", locale, err)
		}

		page.Lang = locale
		page.File = filepath.Join(locale, file)
		if page.ID != manifest.PageID(file) {
			slog.Warn("page id does not match file name",
				logfields.Lang(locale), logfields.Page(page.ID), logfields.Path(file))
		}
		ps.Pages[page.ID] = page
		ps.Order = append(ps.Order, page.ID)
	}
	return ps, nil
}

// Source returns the source locale page set.
func (d *Docset) Source() *PageSet {
	return d.Locales[manifest.SourceLocale]
}

// Page returns the page for a locale, falling back to the source copy when
// the translation is missing. The second return reports whether the locale
// had its own copy.
func (d *Docset) Page(locale, id string) (*mallard.Page, bool) {
	if ps, ok := d.Locales[locale]; ok {
		if page, ok := ps.Pages[id]; ok {
			return page, true
		}
	}
	if page, ok := d.Source().Pages[id]; ok {
		return page, false
	}
	return nil, false
}

// FigurePath resolves a figure path for a locale: the locale's own figures
// directory wins, the source locale's copy is the fallback.
func (d *Docset) FigurePath(locale, src string) string {
	local := filepath.Join(d.Manifest.LocaleDir(locale), filepath.FromSlash(src))
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(d.Manifest.LocaleDir(manifest.SourceLocale), filepath.FromSlash(src))
}
