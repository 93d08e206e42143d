package render

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/thiblahute/pitivi-old/internal/errors"
)

// BrokenRef is a reference in rendered output whose target file is missing.
type BrokenRef struct {
	File   string // HTML file containing the reference, relative to outDir
	Tag    string // a, img or link
	Target string // the href/src value
}

func (b BrokenRef) String() string {
	return fmt.Sprintf("%s: <%s> references missing %q", b.File, b.Tag, b.Target)
}

// VerifyOutput walks a rendered HTML tree and checks that every relative
// href and src resolves to a file on disk. External URLs, anchors and
// special protocols are skipped; only the output tree's own integrity is
// verified.
func VerifyOutput(outDir string) ([]BrokenRef, error) {
	var broken []BrokenRef
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		refs, err := extractRefs(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(outDir, path)
		for _, ref := range refs {
			if !shouldVerify(ref.Target) {
				continue
			}
			target := ref.Target
			if i := strings.IndexByte(target, '#'); i >= 0 {
				target = target[:i]
			}
			if target == "" {
				continue
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
			if _, statErr := os.Stat(resolved); statErr != nil {
				broken = append(broken, BrokenRef{File: rel, Tag: ref.Tag, Target: ref.Target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryRender, errors.SeverityError, "verify rendered output")
	}
	return broken, nil
}

type htmlRef struct {
	Tag    string
	Target string
}

func extractRefs(path string) ([]htmlRef, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return extractRefsFromReader(f)
}

func extractRefsFromReader(r io.Reader) ([]htmlRef, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []htmlRef
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if href := getAttr(n, "href"); href != "" {
					refs = append(refs, htmlRef{Tag: n.Data, Target: href})
				}
			case "img", "video", "audio", "source":
				if src := getAttr(n, "src"); src != "" {
					refs = append(refs, htmlRef{Tag: n.Data, Target: src})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// shouldVerify reports whether a reference points inside the output tree.
func shouldVerify(target string) bool {
	if target == "" || strings.HasPrefix(target, "#") {
		return false
	}
	if strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:") ||
		strings.HasPrefix(target, "data:") ||
		strings.HasPrefix(target, "//") {
		return false
	}
	return true
}
