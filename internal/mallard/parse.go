package mallard

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Namespace is the Mallard 1.0 namespace.
const Namespace = "http://projectmallard.org/1.0/"

// ParseFile parses a single Mallard page file.
func ParseFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	page, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	page.File = path
	return page, nil
}

// Parse parses a Mallard page document from r.
func Parse(r io.Reader) (*Page, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no page element found")
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "page" {
			return nil, fmt.Errorf("unexpected root element <%s>", se.Name.Local)
		}
		return parsePage(dec, se)
	}
}

func parsePage(dec *xml.Decoder, root xml.StartElement) (*Page, error) {
	page := &Page{
		ID:    attr(root, "id"),
		Type:  attr(root, "type"),
		Style: attr(root, "style"),
	}
	if page.ID == "" {
		return nil, errors.New("page has no id attribute")
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "page" {
				return page, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "info":
				info, err := parseInfo(dec)
				if err != nil {
					return nil, err
				}
				page.Info = info
			case "title":
				title, err := textContent(dec)
				if err != nil {
					return nil, err
				}
				page.Title = title
			case "section":
				sec, err := parseSection(dec, t)
				if err != nil {
					return nil, err
				}
				page.Sections = append(page.Sections, sec)
			default:
				block, ok, err := parseBlock(dec, t)
				if err != nil {
					return nil, err
				}
				if ok {
					page.Blocks = append(page.Blocks, block)
				}
			}
		}
	}
}

func parseInfo(dec *xml.Decoder) (Info, error) {
	var info Info
	for {
		tok, err := dec.Token()
		if err != nil {
			return info, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "info" {
				return info, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "link":
				info.Links = append(info.Links, InfoLink{
					Type: attr(t, "type"),
					Xref: attr(t, "xref"),
				})
				if err := dec.Skip(); err != nil {
					return info, err
				}
			case "revision":
				info.Revisions = append(info.Revisions, Revision{
					PkgVersion: attr(t, "pkgversion"),
					Version:    attr(t, "version"),
					Date:       attr(t, "date"),
					Status:     attr(t, "status"),
				})
				if err := dec.Skip(); err != nil {
					return info, err
				}
			case "credit":
				credit, err := parseCredit(dec, t)
				if err != nil {
					return info, err
				}
				info.Credits = append(info.Credits, credit)
			case "desc":
				desc, err := textContent(dec)
				if err != nil {
					return info, err
				}
				info.Desc = desc
			case "license":
				info.License.Href = attr(t, "href")
				text, err := textContent(dec)
				if err != nil {
					return info, err
				}
				info.License.Text = text
			default:
				if err := dec.Skip(); err != nil {
					return info, err
				}
			}
		}
	}
}

func parseCredit(dec *xml.Decoder, start xml.StartElement) (Credit, error) {
	credit := Credit{Type: attr(start, "type")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return credit, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "credit" {
				return credit, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				name, err := textContent(dec)
				if err != nil {
					return credit, err
				}
				credit.Name = name
			case "email":
				email, err := textContent(dec)
				if err != nil {
					return credit, err
				}
				credit.Email = email
			default:
				if err := dec.Skip(); err != nil {
					return credit, err
				}
			}
		}
	}
}

func parseSection(dec *xml.Decoder, start xml.StartElement) (*Section, error) {
	sec := &Section{ID: attr(start, "id")}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "section" {
				return sec, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				title, err := textContent(dec)
				if err != nil {
					return nil, err
				}
				sec.Title = title
			case "section":
				nested, err := parseSection(dec, t)
				if err != nil {
					return nil, err
				}
				sec.Sections = append(sec.Sections, nested)
			default:
				block, ok, err := parseBlock(dec, t)
				if err != nil {
					return nil, err
				}
				if ok {
					sec.Blocks = append(sec.Blocks, block)
				}
			}
		}
	}
}

// parseBlock parses a single block element. Unknown or non-content elements
// (comments, editorial notes) are skipped and reported with ok=false.
func parseBlock(dec *xml.Decoder, start xml.StartElement) (Block, bool, error) {
	switch start.Name.Local {
	case "p":
		inlines, err := collectInlines(dec, start.Name.Local)
		if err != nil {
			return Block{}, false, err
		}
		return Block{Kind: BlockParagraph, Inlines: trimInlineSpace(inlines)}, true, nil
	case "figure":
		fig, err := parseFigure(dec)
		if err != nil {
			return Block{}, false, err
		}
		return Block{Kind: BlockFigure, Figure: fig}, true, nil
	case "media":
		// A bare block-level media behaves like an untitled figure.
		media := mediaFromAttrs(start)
		if err := dec.Skip(); err != nil {
			return Block{}, false, err
		}
		return Block{Kind: BlockFigure, Figure: &Figure{Media: media}}, true, nil
	case "note":
		style := attr(start, "style")
		blocks, err := parseBlocks(dec, start.Name.Local)
		if err != nil {
			return Block{}, false, err
		}
		return Block{Kind: BlockNote, Style: style, Blocks: blocks}, true, nil
	case "code", "screen":
		kind := BlockCode
		if start.Name.Local == "screen" {
			kind = BlockScreen
		}
		inlines, err := collectInlines(dec, start.Name.Local)
		if err != nil {
			return Block{}, false, err
		}
		return Block{Kind: kind, Inlines: []Inline{{Kind: InlineText, Text: PlainText(inlines)}}}, true, nil
	case "list", "steps":
		kind := BlockList
		if start.Name.Local == "steps" {
			kind = BlockSteps
		}
		items, err := parseItems(dec, start.Name.Local)
		if err != nil {
			return Block{}, false, err
		}
		return Block{Kind: kind, Items: items}, true, nil
	default:
		if err := dec.Skip(); err != nil {
			return Block{}, false, err
		}
		return Block{}, false, nil
	}
}

// parseBlocks consumes block children until the close of the named parent.
func parseBlocks(dec *xml.Decoder, parent string) ([]Block, error) {
	var blocks []Block
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == parent {
				return blocks, nil
			}
		case xml.StartElement:
			block, ok, err := parseBlock(dec, t)
			if err != nil {
				return nil, err
			}
			if ok {
				blocks = append(blocks, block)
			}
		}
	}
}

func parseItems(dec *xml.Decoder, parent string) ([][]Block, error) {
	var items [][]Block
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == parent {
				return items, nil
			}
		case xml.StartElement:
			if t.Name.Local != "item" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			blocks, err := parseBlocks(dec, "item")
			if err != nil {
				return nil, err
			}
			items = append(items, blocks)
		}
	}
}

func parseFigure(dec *xml.Decoder) (*Figure, error) {
	fig := &Figure{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "figure" {
				return fig, nil
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				title, err := textContent(dec)
				if err != nil {
					return nil, err
				}
				fig.Title = title
			case "desc":
				desc, err := collectInlines(dec, "desc")
				if err != nil {
					return nil, err
				}
				fig.Desc = desc
			case "media":
				fig.Media = mediaFromAttrs(t)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

// inlineKinds maps Mallard inline element names onto the model's closed set.
var inlineKinds = map[string]InlineKind{
	"link":   InlineLink,
	"em":     InlineEm,
	"gui":    InlineGui,
	"guiseq": InlineGui,
	"key":    InlineKey,
	"keyseq": InlineKey,
	"app":    InlineApp,
	"file":   InlineFile,
	"code":   InlineCode,
	"cmd":    InlineCode,
	"input":  InlineCode,
	"output": InlineCode,
	"sys":    InlineCode,
	"var":    InlineCode,
}

// collectInlines consumes inline content until the close of the named parent.
// Unknown inline elements are flattened into their children so prose survives
// dialect extensions.
func collectInlines(dec *xml.Decoder, parent string) ([]Inline, error) {
	var inlines []Inline
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == parent {
				return inlines, nil
			}
		case xml.CharData:
			if text := normalizeSpace(string(t)); text != "" {
				inlines = append(inlines, Inline{Kind: InlineText, Text: text})
			}
		case xml.StartElement:
			if t.Name.Local == "media" {
				media := mediaFromAttrs(t)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				inlines = append(inlines, Inline{Kind: InlineMedia, Src: media.Src, Text: media.Alt})
				continue
			}
			children, err := collectInlines(dec, t.Name.Local)
			if err != nil {
				return nil, err
			}
			kind, known := inlineKinds[t.Name.Local]
			if !known {
				inlines = append(inlines, children...)
				continue
			}
			in := Inline{Kind: kind, Children: children}
			switch kind {
			case InlineLink:
				in.Xref = attr(t, "xref")
				in.Href = attr(t, "href")
			case InlineCode:
				in.Text = PlainText(children)
				in.Children = nil
			}
			inlines = append(inlines, in)
		}
	}
}

func mediaFromAttrs(se xml.StartElement) Media {
	return Media{
		Type: attr(se, "type"),
		Src:  attr(se, "src"),
		Alt:  attr(se, "alt"),
	}
}

// textContent flattens the element's content to trimmed character data.
func textContent(dec *xml.Decoder) (string, error) {
	inlines, err := collectInlinesAny(dec)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(PlainText(inlines)), nil
}

// collectInlinesAny consumes inline content until the next unmatched end
// element, whatever its name. Used where the parent element name is not
// interesting (titles, descriptions).
func collectInlinesAny(dec *xml.Decoder) ([]Inline, error) {
	var inlines []Inline
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if depth == 0 {
				return inlines, nil
			}
			depth--
		case xml.CharData:
			if text := normalizeSpace(string(t)); text != "" {
				inlines = append(inlines, Inline{Kind: InlineText, Text: text})
			}
		case xml.StartElement:
			depth++
		}
	}
}

// normalizeSpace collapses whitespace runs to single spaces while preserving
// a single leading/trailing space, so adjacent inline elements keep their
// word boundaries. A whitespace-only run collapses to one space.
func normalizeSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if unicode.IsSpace(rune(s[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

// trimInlineSpace strips leading/trailing whitespace from the first and last
// text nodes of an inline run, dropping nodes that end up empty.
func trimInlineSpace(inlines []Inline) []Inline {
	if len(inlines) == 0 {
		return inlines
	}
	if inlines[0].Kind == InlineText {
		inlines[0].Text = strings.TrimLeft(inlines[0].Text, " ")
		if inlines[0].Text == "" {
			inlines = inlines[1:]
		}
	}
	if n := len(inlines); n > 0 && inlines[n-1].Kind == InlineText {
		inlines[n-1].Text = strings.TrimRight(inlines[n-1].Text, " ")
		if inlines[n-1].Text == "" {
			inlines = inlines[:n-1]
		}
	}
	return inlines
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
