package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/mallard"
	"github.com/thiblahute/pitivi-old/internal/manifest"
)

// MediaExistsRule verifies every media path declared in the manifest exists
// on disk in the source locale tree.
type MediaExistsRule struct{}

func (r *MediaExistsRule) Name() string { return "media-exists" }

func (r *MediaExistsRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	dir := ds.Manifest.LocaleDir(manifest.SourceLocale)
	for _, fig := range ds.Manifest.Figures {
		path := filepath.Join(dir, filepath.FromSlash(fig))
		if _, err := os.Stat(path); err != nil {
			issues = append(issues, Issue{
				Locale:   manifest.SourceLocale,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("declared media %q not found at %s", fig, path),
			})
		}
	}
	return issues
}

// FigureDeclaredRule verifies every media reference found in a page body is
// listed in the manifest's media set.
type FigureDeclaredRule struct{}

func (r *FigureDeclaredRule) Name() string { return "figure-declared" }

func (r *FigureDeclaredRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	declared := ds.Manifest.FigureSet()
	ps := ds.Source()
	for _, id := range ps.Order {
		for _, link := range mallard.ExtractLinks(ps.Pages[id]) {
			if link.Kind != mallard.LinkKindMedia {
				continue
			}
			if strings.Contains(link.Destination, "://") {
				continue
			}
			if !declared.Has(link.Destination) {
				issues = append(issues, Issue{
					Locale:   ps.Locale,
					Page:     id,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("media %q is referenced but not declared in the manifest", link.Destination),
				})
			}
		}
	}
	return issues
}

// XrefResolvesRule verifies every cross-reference target corresponds to a
// declared page, and that section fragments resolve within the target page.
type XrefResolvesRule struct{}

func (r *XrefResolvesRule) Name() string { return "xref-resolves" }

func (r *XrefResolvesRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	declared := ds.Manifest.PageIDSet()
	ps := ds.Source()
	for _, id := range ps.Order {
		for _, link := range mallard.ExtractLinks(ps.Pages[id]) {
			switch link.Kind {
			case mallard.LinkKindXref, mallard.LinkKindGuide, mallard.LinkKindSeeAlso:
			default:
				continue
			}
			pageID, sectionID := mallard.XrefTarget(link.Destination)
			if pageID == "" {
				pageID = id // "#section" refers to the current page
			}
			if !declared.Has(pageID) {
				issues = append(issues, Issue{
					Locale:   ps.Locale,
					Page:     id,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("cross-reference %q targets undeclared page %q", link.Destination, pageID),
				})
				continue
			}
			if sectionID == "" {
				continue
			}
			target, ok := ps.Pages[pageID]
			if ok && target.SectionByID(sectionID) == nil {
				issues = append(issues, Issue{
					Locale:   ps.Locale,
					Page:     id,
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("cross-reference %q targets missing section %q of page %q", link.Destination, sectionID, pageID),
				})
			}
		}
	}
	return issues
}

// PageMetadataRule verifies the required metadata block of every source
// page: a title, at least one authorship credit, a license statement and a
// one-line description.
type PageMetadataRule struct{}

func (r *PageMetadataRule) Name() string { return "page-metadata" }

func (r *PageMetadataRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	ps := ds.Source()
	for _, id := range ps.Order {
		page := ps.Pages[id]
		report := func(msg string) {
			issues = append(issues, Issue{
				Locale:   ps.Locale,
				Page:     id,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  msg,
			})
		}
		if strings.TrimSpace(page.Title) == "" {
			report("page has no title")
		}
		if len(page.Info.Credits) == 0 {
			report("page has no authorship credit")
		}
		if strings.TrimSpace(page.Info.License.Text) == "" && page.Info.License.Href == "" {
			report("page has no license statement")
		}
		if strings.TrimSpace(page.Info.Desc) == "" {
			report("page has no one-line description")
		}
	}
	return issues
}

// LocaleCompletenessRule reports, per declared language code, pages that
// have no localized copy. A missing translation falls back to the source
// page at render time, so this is a warning, not an error.
type LocaleCompletenessRule struct{}

func (r *LocaleCompletenessRule) Name() string { return "locale-completeness" }

func (r *LocaleCompletenessRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	linguas := append([]string(nil), ds.Manifest.Linguas...)
	sort.Strings(linguas)
	for _, locale := range linguas {
		ps, ok := ds.Locales[locale]
		if !ok {
			continue
		}
		for _, file := range ps.Missing {
			issues = append(issues, Issue{
				Locale:   locale,
				Page:     manifest.PageID(file),
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("no %s translation of %s, source page will be used", locale, file),
			})
		}
	}
	return issues
}

// SourceCompleteRule verifies every declared page file actually exists in
// the source locale. Unlike translations there is no fallback for these.
type SourceCompleteRule struct{}

func (r *SourceCompleteRule) Name() string { return "source-complete" }

func (r *SourceCompleteRule) Check(ds *docset.Docset) []Issue {
	var issues []Issue
	for _, file := range ds.Source().Missing {
		issues = append(issues, Issue{
			Locale:   manifest.SourceLocale,
			Page:     manifest.PageID(file),
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("declared page %s is missing from the source locale", file),
		})
	}
	return issues
}
