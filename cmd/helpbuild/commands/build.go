package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/thiblahute/pitivi-old/internal/cache"
	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/logfields"
	"github.com/thiblahute/pitivi-old/internal/render"
	"github.com/thiblahute/pitivi-old/internal/report"
	"github.com/thiblahute/pitivi-old/internal/validate"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Action       string `arg:"" optional:"" enum:"html,cache" default:"html" help:"Build target: html tree or page cache"`
	Output       string `short:"o" help:"Override the configured output directory"`
	Report       string `help:"Write the build report to this path (default: next to the output)"`
	SkipValidate bool   `help:"Skip validation before building"`
	Verify       bool   `help:"Check rendered output for broken internal references (html only)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	started := time.Now()
	ctx := context.Background()

	m, err := loadManifest(root)
	if err != nil {
		return err
	}
	if b.Output != "" {
		m.Output.Directory = b.Output
	}

	ds, err := docset.Load(m)
	if err != nil {
		return err
	}

	if !b.SkipValidate {
		result := validate.NewValidator(&validate.Config{Quiet: true}).Validate(ds)
		if result.HasErrors() {
			formatter := validate.NewFormatter("text")
			_ = formatter.Format(os.Stderr, result, m.HelpDir)
			return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount())
		}
	}

	rep := report.New(b.Action, m.ID)
	rep.Inputs.Linguas = m.Linguas
	rep.Inputs.Pages = m.PageIDs()
	rep.Inputs.Figures = m.Figures

	var reportPath string
	switch b.Action {
	case "cache":
		reportPath, err = b.runCache(ctx, ds, rep)
	default:
		reportPath, err = b.runHTML(ctx, ds, rep)
	}
	if err != nil {
		return err
	}

	rep.Status = "success"
	rep.Duration = time.Since(started).Milliseconds()
	if b.Report != "" {
		reportPath = b.Report
	}
	if err := rep.Write(reportPath); err != nil {
		return err
	}

	slog.Info("build finished",
		logfields.BuildID(rep.ID),
		logfields.Action(b.Action),
		logfields.DurationMS(float64(rep.Duration)))
	return nil
}

func (b *BuildCmd) runHTML(ctx context.Context, ds *docset.Docset, rep *report.BuildReport) (string, error) {
	m := ds.Manifest
	renderer, err := render.NewRenderer(ds, m.Output.Directory)
	if err != nil {
		return "", err
	}
	stats, err := renderer.RenderAll(ctx)
	if err != nil {
		return "", err
	}
	slog.Info("html tree rendered",
		logfields.Pages(stats.PagesRendered),
		logfields.Linguas(stats.Locales),
		slog.Int("figures", stats.FiguresCopied),
		slog.Int("fallbacks", stats.Fallbacks))

	if b.Verify {
		broken, err := render.VerifyOutput(m.Output.Directory)
		if err != nil {
			return "", err
		}
		for _, ref := range broken {
			slog.Error("broken reference in output", logfields.Path(ref.File), slog.String("target", ref.Target))
		}
		if len(broken) > 0 {
			return "", fmt.Errorf("output verification found %d broken reference(s)", len(broken))
		}
	}

	if err := rep.HashOutputs(m.Output.Directory); err != nil {
		return "", err
	}
	return filepath.Join(m.Output.Directory, report.Filename), nil
}

func (b *BuildCmd) runCache(ctx context.Context, ds *docset.Docset, rep *report.BuildReport) (string, error) {
	m := ds.Manifest
	if dir := filepath.Dir(m.Output.CacheFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}

	store, err := cache.Open(m.Output.CacheFile)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	count, err := store.Rebuild(ctx, ds)
	if err != nil {
		return "", err
	}
	slog.Info("cache written", logfields.Pages(count), logfields.Path(m.Output.CacheFile))

	rep.Outputs.CacheFile = m.Output.CacheFile
	return m.Output.CacheFile + ".report.json", nil
}
