package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML metadata block of a Markdown help page. It carries
// the same required metadata a Mallard info block does.
type Frontmatter struct {
	ID      string   `yaml:"id,omitempty"`
	Title   string   `yaml:"title,omitempty"`
	Desc    string   `yaml:"desc,omitempty"`
	License string   `yaml:"license,omitempty"`
	Authors []Author `yaml:"authors,omitempty"`
	Guide   []string `yaml:"guide,omitempty"`
	SeeAlso []string `yaml:"seealso,omitempty"`
	Rev     Revision `yaml:"revision,omitempty"`
}

// Author is an authorship credit.
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
}

// Revision is the page revision stamp.
type Revision struct {
	PkgVersion string `yaml:"pkgversion,omitempty"`
	Version    string `yaml:"version,omitempty"`
	Date       string `yaml:"date,omitempty"`
	Status     string `yaml:"status,omitempty"`
}

var fmDelimiter = []byte("---")

// SplitFrontmatter separates the YAML frontmatter block from the Markdown
// body. A document without a frontmatter block returns a zero Frontmatter
// and the input unchanged.
func SplitFrontmatter(data []byte) (Frontmatter, []byte, error) {
	var fm Frontmatter
	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(trimmed, fmDelimiter) {
		return fm, data, nil
	}
	rest := trimmed[len(fmDelimiter):]
	if len(rest) == 0 || (rest[0] != '\n' && !bytes.HasPrefix(rest, []byte("\r\n"))) {
		return fm, data, nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, nil, fmt.Errorf("unterminated frontmatter block")
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return fm, nil, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return fm, body, nil
}
