// Package export converts a rendered HTML tree back into plain Markdown,
// one .md file per page, mirroring the per-locale layout. Useful for
// review diffs and for feeding the help content to tools that read
// Markdown but not Mallard.
package export

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/thiblahute/pitivi-old/internal/errors"
	"github.com/thiblahute/pitivi-old/internal/logfields"
)

// Stats summarizes an export run.
type Stats struct {
	Pages int
}

// Run converts every .html file under htmlDir into a Markdown file under
// exportDir, preserving the relative layout. Stylesheets and figures are
// not copied; the export is text only.
func Run(ctx context.Context, htmlDir, exportDir string) (*Stats, error) {
	stats := &Stats{}
	err := filepath.WalkDir(htmlDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}

		rel, err := filepath.Rel(htmlDir, path)
		if err != nil {
			return err
		}
		if err := exportPage(path, filepath.Join(exportDir, mdName(rel))); err != nil {
			return err
		}
		slog.Debug("exported page", logfields.Path(rel))
		stats.Pages++
		return nil
	})
	if err != nil {
		return stats, errors.Wrap(err, errors.CategoryExport, errors.SeverityError, "export rendered pages")
	}
	return stats, nil
}

func exportPage(htmlPath, mdPath string) error {
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "read rendered page")
	}

	markdown, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return errors.Wrap(err, errors.CategoryExport, errors.SeverityError, "convert page to markdown").
			WithContext("file", htmlPath)
	}

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "create export directory")
	}
	if err := os.WriteFile(mdPath, []byte(markdown), 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "write markdown file")
	}
	return nil
}

func mdName(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".md"
}
