package commands

import (
	"os"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/validate"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Format string `help:"Output format (text, json)" enum:"text,json" default:"text"`
	Quiet  bool   `short:"q" help:"Only report errors, suppress warnings"`
}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	m, err := loadManifest(root)
	if err != nil {
		return err
	}
	ds, err := docset.Load(m)
	if err != nil {
		return err
	}

	result := validate.NewValidator(&validate.Config{Quiet: v.Quiet, Format: v.Format}).Validate(ds)

	formatter := validate.NewFormatter(v.Format)
	if err := formatter.Format(os.Stdout, result, m.HelpDir); err != nil {
		return err
	}

	// Determine exit code based on results
	if code := validateExitCode(result, v.Quiet); code != 0 {
		os.Exit(code)
	}
	return nil
}

// validateExitCode maps a validation result onto the process exit status:
// 2 when errors are present (blocks build), 1 when warnings remain and were
// not suppressed, 0 otherwise.
func validateExitCode(result *validate.Result, quiet bool) int {
	switch {
	case result.HasErrors():
		return 2
	case result.HasWarnings() && !quiet:
		return 1
	default:
		return 0
	}
}
