// Package render turns a loaded documentation set into an HTML tree:
// one directory per locale, one HTML file per page, figures copied
// alongside. Output is deterministic: rendering the same inputs twice
// produces byte-identical files.
package render

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/errors"
	"github.com/thiblahute/pitivi-old/internal/logfields"
	"github.com/thiblahute/pitivi-old/internal/mallard"
	"github.com/thiblahute/pitivi-old/internal/manifest"
)

//go:embed templates/*.tmpl static/*.css
var assets embed.FS

// Stats summarizes a render run.
type Stats struct {
	Locales       int
	PagesRendered int
	FiguresCopied int
	Fallbacks     int // pages rendered from the source copy for a locale
}

// Renderer renders a documentation set into an output directory.
type Renderer struct {
	ds     *docset.Docset
	outDir string
	tmpl   *template.Template
}

// NewRenderer creates a renderer for the given set and output directory.
func NewRenderer(ds *docset.Docset, outDir string) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryRender, errors.SeverityFatal, "parse page template")
	}
	return &Renderer{ds: ds, outDir: outDir, tmpl: tmpl}, nil
}

// RenderAll renders every page of every locale and copies the figure set.
// The output directory is created if absent and cleaned first when the
// manifest asks for it.
func (r *Renderer) RenderAll(ctx context.Context) (*Stats, error) {
	m := r.ds.Manifest
	if m.Output.Clean {
		if err := os.RemoveAll(r.outDir); err != nil {
			return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "clean output directory")
		}
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "create output directory")
	}

	css, err := assets.ReadFile("static/style.css")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryRender, errors.SeverityFatal, "read stylesheet")
	}
	if err := os.WriteFile(filepath.Join(r.outDir, "style.css"), css, 0o644); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "write stylesheet")
	}

	stats := &Stats{}
	for _, locale := range m.Locales() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := r.renderLocale(locale, stats); err != nil {
			return stats, err
		}
		stats.Locales++
	}
	return stats, nil
}

func (r *Renderer) renderLocale(locale string, stats *Stats) error {
	dir := filepath.Join(r.outDir, locale)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "create locale directory")
	}

	for _, id := range r.ds.Manifest.PageIDs() {
		page, own := r.ds.Page(locale, id)
		if page == nil {
			slog.Warn("skipping missing page", logfields.Lang(locale), logfields.Page(id))
			continue
		}
		if !own {
			stats.Fallbacks++
		}
		if err := r.renderPage(dir, locale, page); err != nil {
			return err
		}
		stats.PagesRendered++
	}

	return r.copyFigures(locale, dir, stats)
}

func (r *Renderer) renderPage(dir, locale string, page *mallard.Page) error {
	data := r.pageData(locale, page)

	out, err := os.Create(filepath.Join(dir, page.ID+".html"))
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "create page file").
			WithContext("page", page.ID)
	}
	defer out.Close()

	if err := r.tmpl.ExecuteTemplate(out, "page.html.tmpl", data); err != nil {
		return errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "execute page template").
			WithContext("page", page.ID)
	}
	return nil
}

type navLink struct {
	Href  string
	Title string
}

type pageData struct {
	Lang     string
	Title    string
	SetTitle string
	Desc     string
	Body     template.HTML
	Guides   []navLink
	SeeAlso  []navLink
	Credits  string
	License  string
}

func (r *Renderer) pageData(locale string, page *mallard.Page) pageData {
	data := pageData{
		Lang:     htmlLang(locale),
		Title:    page.Title,
		SetTitle: r.ds.Manifest.Title,
		Desc:     page.Info.Desc,
		Body:     template.HTML(renderBody(page)),
		License:  page.Info.License.Text,
	}

	for _, il := range page.Info.Links {
		target, _ := mallard.XrefTarget(il.Xref)
		linked, _ := r.ds.Page(locale, target)
		if linked == nil {
			continue
		}
		nav := navLink{Href: xrefHref(il.Xref), Title: linked.Title}
		switch il.Type {
		case "guide":
			data.Guides = append(data.Guides, nav)
		case "seealso":
			data.SeeAlso = append(data.SeeAlso, nav)
		}
	}

	var authors []string
	for _, c := range page.Info.Credits {
		if c.Name != "" {
			authors = append(authors, c.Name)
		}
	}
	if len(authors) > 0 {
		data.Credits = "Written by " + strings.Join(authors, ", ") + "."
	}
	return data
}

func (r *Renderer) copyFigures(locale, dir string, stats *Stats) error {
	for _, fig := range r.ds.Manifest.Figures {
		src := r.ds.FigurePath(locale, fig)
		if _, err := os.Stat(src); err != nil {
			slog.Warn("figure missing, not copied", logfields.Lang(locale), logfields.Figure(fig))
			continue
		}
		dst := filepath.Join(dir, filepath.FromSlash(fig))
		if err := copyFile(src, dst); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "copy figure").
				WithContext("figure", fig)
		}
		stats.FiguresCopied++
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// htmlLang maps the source locale directory name onto a usable lang tag.
func htmlLang(locale string) string {
	if locale == manifest.SourceLocale {
		return "en"
	}
	return locale
}

// OutputDir returns the locale output directory for a rendered set.
func OutputDir(outDir, locale string) string {
	return filepath.Join(outDir, locale)
}
