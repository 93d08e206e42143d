package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/thiblahute/pitivi-old/internal/gitinfo"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	Format string `help:"Output format (text, json)" enum:"text,json" default:"text"`
	Stale  bool   `help:"List only stale or missing pages"`
}

func (s *StatusCmd) Run(_ *Global, root *CLI) error {
	m, err := loadManifest(root)
	if err != nil {
		return err
	}

	inspector, err := gitinfo.NewInspector(m)
	if err != nil {
		return err
	}
	status, err := inspector.Report()
	if err != nil {
		return err
	}

	if s.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}
	return s.printText(status)
}

func (s *StatusCmd) printText(status *gitinfo.Status) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "LOCALE\tLANGUAGE\tTRANSLATED\tSTALE\tMISSING\n")
	for _, ls := range status.Locales {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", ls.Locale, ls.Language, ls.Translated, ls.Stale, ls.Missing)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !s.Stale {
		return nil
	}
	fmt.Println()
	for _, ls := range status.Locales {
		for _, ps := range ls.Pages {
			switch {
			case !ps.Translated:
				fmt.Printf("%s/%s: missing\n", ls.Locale, ps.Page)
			case ps.Stale:
				fmt.Printf("%s/%s: %d day(s) behind the source\n", ls.Locale, ps.Page, ps.DaysBehind)
			}
		}
	}
	return nil
}
