// Package validate checks the structural integrity of a loaded documentation
// set: declared media exist, cross-references resolve, required page metadata
// is present, and translations are complete.
package validate

import (
	"github.com/thiblahute/pitivi-old/internal/docset"
)

// Validator runs a fixed rule set over a documentation set.
type Validator struct {
	cfg   *Config
	rules []Rule
}

// NewValidator creates a validator with the default rule set.
func NewValidator(cfg *Config) *Validator {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Validator{
		cfg: cfg,
		rules: []Rule{
			&SourceCompleteRule{},
			&MediaExistsRule{},
			&FigureDeclaredRule{},
			&XrefResolvesRule{},
			&PageMetadataRule{},
			&LocaleCompletenessRule{},
		},
	}
}

// Validate applies every rule and collects the issues.
func (v *Validator) Validate(ds *docset.Docset) *Result {
	result := &Result{
		Issues:       []Issue{},
		PagesChecked: len(ds.Source().Order),
	}
	for _, rule := range v.rules {
		for _, issue := range rule.Check(ds) {
			if v.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return result
}
