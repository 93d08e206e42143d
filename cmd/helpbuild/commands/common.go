// Package commands defines the helpbuild command line interface.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/thiblahute/pitivi-old/internal/manifest"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command grammar.
type CLI struct {
	Manifest string           `short:"m" help:"Manifest file path" default:"help.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the help set (html or cache target)"`
	Validate ValidateCmd `cmd:"" help:"Validate the help tree without building"`
	Serve    ServeCmd    `cmd:"" help:"Serve the rendered help locally and rebuild on change"`
	Status   StatusCmd   `cmd:"" help:"Report translation status from git history"`
	Export   ExportCmd   `cmd:"" help:"Export rendered pages as Markdown"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadManifest(root *CLI) (*manifest.Manifest, error) {
	return manifest.Load(root.Manifest)
}
