// Package manifest loads and validates the help manifest (help.yaml): the help
// identifier, the declared language codes, the media set and the page set that
// drive every build action.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/thiblahute/pitivi-old/internal/util/sets"
)

// DefaultFilename is the manifest filename looked up at the help tree root.
const DefaultFilename = "help.yaml"

// SourceLocale is the root locale directory holding the original page set.
const SourceLocale = "C"

// Manifest declares the inputs of the documentation build.
type Manifest struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title,omitempty"`
	Linguas []string `yaml:"linguas,omitempty"`
	Figures []string `yaml:"figures,omitempty"`
	Pages   []string `yaml:"pages"`

	Output OutputConfig `yaml:"output,omitempty"`
	Serve  ServeConfig  `yaml:"serve,omitempty"`

	// HelpDir is the directory the manifest was loaded from. Not serialized.
	HelpDir string `yaml:"-"`
}

// OutputConfig controls where build artifacts land.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	CacheFile string `yaml:"cache_file,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Port            int    `yaml:"port,omitempty"`
	Metrics         bool   `yaml:"metrics,omitempty"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
}

// RebuildEvery returns the parsed periodic rebuild interval, zero when unset.
// Load has already validated the syntax.
func (s ServeConfig) RebuildEvery() time.Duration {
	if s.RebuildInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil {
		return 0
	}
	return d
}

// Load reads the manifest from path. Environment variables referenced in the
// YAML are expanded; a .env file next to the manifest is loaded first if present.
func Load(path string) (*Manifest, error) {
	dir := filepath.Dir(path)
	if envPath := filepath.Join(dir, ".env"); fileExists(envPath) {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	m.HelpDir = dir
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Output.Directory == "" {
		m.Output.Directory = "./html"
	}
	if m.Output.CacheFile == "" {
		m.Output.CacheFile = m.ID + ".cache.db"
	}
	if m.Serve.Port == 0 {
		m.Serve.Port = 8080
	}
}

// Validate checks the manifest for syntactic problems: a missing identifier,
// duplicate or malformed language codes, duplicate figure paths, and page
// entries that are not page files. Semantic problems (missing files, dangling
// cross-references) are the validator's job, not the loader's.
func (m *Manifest) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("manifest: missing help id")
	}
	if len(m.Pages) == 0 {
		return fmt.Errorf("manifest: no pages declared")
	}

	seen := sets.New[string]()
	for _, code := range m.Linguas {
		if seen.Has(code) {
			return fmt.Errorf("manifest: duplicate language code %q", code)
		}
		seen.Add(code)
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("manifest: invalid language code %q: %w", code, err)
		}
	}

	figs := sets.New[string]()
	for _, fig := range m.Figures {
		if figs.Has(fig) {
			return fmt.Errorf("manifest: duplicate figure path %q", fig)
		}
		figs.Add(fig)
	}

	if m.Serve.RebuildInterval != "" {
		if _, err := time.ParseDuration(m.Serve.RebuildInterval); err != nil {
			return fmt.Errorf("manifest: invalid rebuild_interval: %w", err)
		}
	}

	pages := sets.New[string]()
	for _, page := range m.Pages {
		ext := filepath.Ext(page)
		if ext != ".page" && ext != ".md" {
			return fmt.Errorf("manifest: %q is not a page file (.page or .md)", page)
		}
		if pages.Has(page) {
			return fmt.Errorf("manifest: duplicate page %q", page)
		}
		pages.Add(page)
	}
	return nil
}

// FigureSet returns the declared media paths as a set.
func (m *Manifest) FigureSet() sets.Set[string] {
	return sets.New(m.Figures...)
}

// PageIDs returns the page identifiers (file names without extension) in
// declared order.
func (m *Manifest) PageIDs() []string {
	ids := make([]string, 0, len(m.Pages))
	for _, p := range m.Pages {
		ids = append(ids, PageID(p))
	}
	return ids
}

// PageIDSet returns the declared page identifiers as a set.
func (m *Manifest) PageIDSet() sets.Set[string] {
	return sets.New(m.PageIDs()...)
}

// Locales returns the source locale followed by the declared linguas, sorted.
func (m *Manifest) Locales() []string {
	out := make([]string, 0, len(m.Linguas)+1)
	out = append(out, SourceLocale)
	linguas := append([]string(nil), m.Linguas...)
	sort.Strings(linguas)
	return append(out, linguas...)
}

// LocaleDir returns the directory holding the page set for a locale.
func (m *Manifest) LocaleDir(locale string) string {
	return filepath.Join(m.HelpDir, locale)
}

// PageID derives the page identifier from a page file name.
func PageID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
