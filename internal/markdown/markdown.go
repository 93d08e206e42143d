// Package markdown parses Markdown help pages and converts them into the
// same page model Mallard pages use, so validation, caching and rendering
// treat both dialects uniformly.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/thiblahute/pitivi-old/internal/mallard"
)

// ParseFile parses a Markdown help page file into the shared page model.
// The page id defaults to the file name when the frontmatter omits one.
func ParseFile(path string) (*mallard.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	page, err := ParsePage(data, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	page.File = path
	return page, nil
}

// ParsePage parses a Markdown document (frontmatter plus body) into the
// shared page model.
func ParsePage(data []byte, fallbackID string) (*mallard.Page, error) {
	fm, body, err := SplitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	page := &mallard.Page{
		ID:    fm.ID,
		Type:  "topic",
		Title: fm.Title,
	}
	if page.ID == "" {
		page.ID = fallbackID
	}
	page.Info.Desc = fm.Desc
	page.Info.License = mallard.License{Text: fm.License}
	for _, a := range fm.Authors {
		page.Info.Credits = append(page.Info.Credits, mallard.Credit{Type: "author", Name: a.Name, Email: a.Email})
	}
	for _, xref := range fm.Guide {
		page.Info.Links = append(page.Info.Links, mallard.InfoLink{Type: "guide", Xref: xref})
	}
	for _, xref := range fm.SeeAlso {
		page.Info.Links = append(page.Info.Links, mallard.InfoLink{Type: "seealso", Xref: xref})
	}
	if fm.Rev != (Revision{}) {
		page.Info.Revisions = append(page.Info.Revisions, mallard.Revision{
			PkgVersion: fm.Rev.PkgVersion,
			Version:    fm.Rev.Version,
			Date:       fm.Rev.Date,
			Status:     fm.Rev.Status,
		})
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))
	conv := &converter{source: body, page: page}
	conv.walkDocument(root)
	return page, nil
}

// converter folds a Goldmark AST into the page model. Headings open
// sections: the first level-1 heading becomes the page title, deeper
// headings start sections nested by level.
type converter struct {
	source []byte
	page   *mallard.Page

	// open section stack; index i holds the section opened by a heading of
	// level i+2 (level-2 headings are top-level sections).
	stack []*mallard.Section
}

func (c *converter) walkDocument(root gmast.Node) {
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*gmast.Heading); ok {
			c.openSection(h)
			continue
		}
		if block, ok := c.convertBlock(node); ok {
			c.appendBlock(block)
		}
	}
}

func (c *converter) openSection(h *gmast.Heading) {
	title := strings.TrimSpace(string(nodeText(h, c.source)))
	if h.Level <= 1 {
		if c.page.Title == "" {
			c.page.Title = title
		}
		c.stack = c.stack[:0]
		return
	}

	depth := h.Level - 2
	if depth > len(c.stack) {
		depth = len(c.stack)
	}
	c.stack = c.stack[:depth]

	sec := &mallard.Section{ID: slugify(title), Title: title}
	if depth == 0 {
		c.page.Sections = append(c.page.Sections, sec)
	} else {
		parent := c.stack[depth-1]
		parent.Sections = append(parent.Sections, sec)
	}
	c.stack = append(c.stack, sec)
}

func (c *converter) appendBlock(block mallard.Block) {
	if len(c.stack) == 0 {
		c.page.Blocks = append(c.page.Blocks, block)
		return
	}
	sec := c.stack[len(c.stack)-1]
	sec.Blocks = append(sec.Blocks, block)
}

func (c *converter) convertBlock(node gmast.Node) (mallard.Block, bool) {
	switch n := node.(type) {
	case *gmast.Paragraph:
		inlines := c.convertInlines(n)
		// A paragraph holding a single image reads as a figure.
		if len(inlines) == 1 && inlines[0].Kind == mallard.InlineMedia {
			return mallard.Block{Kind: mallard.BlockFigure, Figure: &mallard.Figure{
				Media: mallard.Media{Type: "image", Src: inlines[0].Src, Alt: inlines[0].Text},
			}}, true
		}
		return mallard.Block{Kind: mallard.BlockParagraph, Inlines: inlines}, true
	case *gmast.FencedCodeBlock, *gmast.CodeBlock:
		return mallard.Block{Kind: mallard.BlockCode, Inlines: []mallard.Inline{
			{Kind: mallard.InlineText, Text: blockLines(node, c.source)},
		}}, true
	case *gmast.Blockquote:
		var children []mallard.Block
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if block, ok := c.convertBlock(child); ok {
				children = append(children, block)
			}
		}
		return mallard.Block{Kind: mallard.BlockNote, Blocks: children}, true
	case *gmast.List:
		kind := mallard.BlockList
		if n.IsOrdered() {
			kind = mallard.BlockSteps
		}
		var items [][]mallard.Block
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			var blocks []mallard.Block
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				if tb, ok := child.(*gmast.TextBlock); ok {
					blocks = append(blocks, mallard.Block{Kind: mallard.BlockParagraph, Inlines: c.convertInlines(tb)})
					continue
				}
				if block, ok := c.convertBlock(child); ok {
					blocks = append(blocks, block)
				}
			}
			items = append(items, blocks)
		}
		return mallard.Block{Kind: kind, Items: items}, true
	case *gmast.ThematicBreak, *gmast.HTMLBlock:
		return mallard.Block{}, false
	default:
		return mallard.Block{}, false
	}
}

func (c *converter) convertInlines(parent gmast.Node) []mallard.Inline {
	var inlines []mallard.Inline
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *gmast.Text:
			text := string(n.Segment.Value(c.source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				text += " "
			}
			inlines = append(inlines, mallard.Inline{Kind: mallard.InlineText, Text: text})
		case *gmast.CodeSpan:
			inlines = append(inlines, mallard.Inline{Kind: mallard.InlineCode, Text: string(nodeText(n, c.source))})
		case *gmast.Emphasis:
			inlines = append(inlines, mallard.Inline{Kind: mallard.InlineEm, Children: c.convertInlines(n)})
		case *gmast.Link:
			in := mallard.Inline{Kind: mallard.InlineLink, Children: c.convertInlines(n)}
			dest := string(n.Destination)
			if xref, ok := xrefDestination(dest); ok {
				in.Xref = xref
			} else {
				in.Href = dest
			}
			inlines = append(inlines, in)
		case *gmast.AutoLink:
			dest := string(n.URL(c.source))
			inlines = append(inlines, mallard.Inline{
				Kind:     mallard.InlineLink,
				Href:     dest,
				Children: []mallard.Inline{{Kind: mallard.InlineText, Text: dest}},
			})
		case *gmast.Image:
			inlines = append(inlines, mallard.Inline{
				Kind: mallard.InlineMedia,
				Src:  string(n.Destination),
				Text: strings.TrimSpace(string(nodeText(n, c.source))),
			})
		default:
			// Unknown inline containers flatten into their children.
			inlines = append(inlines, c.convertInlines(node)...)
		}
	}
	return inlines
}

// xrefDestination reports whether a link destination is an in-set
// cross-reference (a relative page reference) and returns the page id form.
func xrefDestination(dest string) (string, bool) {
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	frag := ""
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		dest, frag = dest[:i], dest[i:]
	}
	if dest == "" {
		return "", false
	}
	for _, ext := range []string{".page", ".md"} {
		dest = strings.TrimSuffix(dest, ext)
	}
	if strings.ContainsAny(dest, "/\\") {
		return "", false
	}
	return dest + frag, true
}

func nodeText(node gmast.Node, source []byte) []byte {
	var sb strings.Builder
	_ = gmast.Walk(node, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return []byte(sb.String())
}

func blockLines(node gmast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
