package validate_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/docset"
	"github.com/thiblahute/pitivi-old/internal/manifest"
	"github.com/thiblahute/pitivi-old/internal/testutil"
	"github.com/thiblahute/pitivi-old/internal/validate"
)

func loadTree(t *testing.T, mutate func(helpDir string, m *manifest.Manifest)) *docset.Docset {
	t.Helper()
	m, err := manifest.Load(testutil.WriteHelpTree(t))
	require.NoError(t, err)
	if mutate != nil {
		mutate(m.HelpDir, m)
	}
	ds, err := docset.Load(m)
	require.NoError(t, err)
	return ds
}

func issuesForRule(result *validate.Result, rule string) []validate.Issue {
	var out []validate.Issue
	for _, issue := range result.Issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestValidTreeHasNoErrors(t *testing.T) {
	ds := loadTree(t, nil)
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	assert.False(t, result.HasErrors(), "unexpected errors: %v", result.Issues)

	// The fr locale is missing index and effects: warnings, not errors.
	warnings := issuesForRule(result, "locale-completeness")
	assert.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, validate.SeverityWarning, w.Severity)
		assert.Equal(t, "fr", w.Locale)
	}
}

func TestQuietModeDropsWarnings(t *testing.T) {
	ds := loadTree(t, nil)
	result := validate.NewValidator(&validate.Config{Quiet: true}).Validate(ds)
	assert.False(t, result.HasWarnings())
	assert.False(t, result.HasErrors())
}

func TestMediaExists(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		require.NoError(t, os.Remove(filepath.Join(helpDir, "C", "figures", "ripple-after.png")))
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	issues := issuesForRule(result, "media-exists")
	require.Len(t, issues, 1)
	assert.Equal(t, validate.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "ripple-after.png")
}

func TestFigureDeclared(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		// The pages still reference the figures, but the manifest no longer
		// declares them.
		m.Figures = nil
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	issues := issuesForRule(result, "figure-declared")
	require.Len(t, issues, 2)
	assert.Equal(t, "trimming", issues[0].Page)
}

func TestXrefResolves(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		page := `<page xmlns="http://projectmallard.org/1.0/" id="index">
  <info>
    <desc>d</desc>
    <credit type="author"><name>A</name></credit>
    <license><p>L</p></license>
  </info>
  <title>Index</title>
  <p>See <link xref="ghost"/> and <link xref="trimming#nosuch"/> and <link xref="trimming#ripple"/>.</p>
</page>`
		testutil.WriteFile(t, helpDir, "C/index.page", []byte(page))
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	issues := issuesForRule(result, "xref-resolves")
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, `undeclared page "ghost"`)
	assert.Contains(t, issues[1].Message, `missing section "nosuch"`)
}

func TestPageMetadata(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		page := `<page xmlns="http://projectmallard.org/1.0/" id="index">
  <title>Index</title>
  <p>Bare page with no info block.</p>
</page>`
		testutil.WriteFile(t, helpDir, "C/index.page", []byte(page))
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	issues := issuesForRule(result, "page-metadata")
	require.Len(t, issues, 3)
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		assert.Equal(t, "index", issue.Page)
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, "page has no authorship credit")
	assert.Contains(t, messages, "page has no license statement")
	assert.Contains(t, messages, "page has no one-line description")
}

func TestSourceComplete(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		require.NoError(t, os.Remove(filepath.Join(helpDir, "C", "effects.md")))
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	issues := issuesForRule(result, "source-complete")
	require.Len(t, issues, 1)
	assert.Equal(t, "effects", issues[0].Page)
	assert.Equal(t, validate.SeverityError, issues[0].Severity)
	assert.True(t, result.HasErrors())
}

func TestTextFormatter(t *testing.T) {
	ds := loadTree(t, func(helpDir string, m *manifest.Manifest) {
		require.NoError(t, os.Remove(filepath.Join(helpDir, "C", "figures", "ripple-before.png")))
	})
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	var buf bytes.Buffer
	require.NoError(t, validate.NewFormatter("text").Format(&buf, result, ds.Manifest.HelpDir))
	out := buf.String()
	assert.Contains(t, out, "media-exists")
	assert.Contains(t, out, "ripple-before.png")
}

func TestJSONFormatter(t *testing.T) {
	ds := loadTree(t, nil)
	result := validate.NewValidator(&validate.Config{}).Validate(ds)

	var buf bytes.Buffer
	require.NoError(t, validate.NewFormatter("json").Format(&buf, result, ds.Manifest.HelpDir))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "issues")
}
