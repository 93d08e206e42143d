package commands

import (
	"context"
	"log/slog"

	"github.com/thiblahute/pitivi-old/internal/export"
	"github.com/thiblahute/pitivi-old/internal/logfields"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Output string `short:"o" help:"Directory for the exported Markdown" default:"./export"`
	Source string `help:"Rendered HTML tree to export (default: the configured output directory)"`
}

func (e *ExportCmd) Run(_ *Global, root *CLI) error {
	m, err := loadManifest(root)
	if err != nil {
		return err
	}

	htmlDir := e.Source
	if htmlDir == "" {
		htmlDir = m.Output.Directory
	}

	stats, err := export.Run(context.Background(), htmlDir, e.Output)
	if err != nil {
		return err
	}
	slog.Info("export finished", logfields.Pages(stats.Pages), logfields.Path(e.Output))
	return nil
}
