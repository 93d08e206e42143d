// Package mallard models and parses Mallard help pages: the page metadata
// block (guide links, revision stamps, credits, description, license), the
// title, and the structured body of sections, paragraphs and figures.
package mallard

import "strings"

// Page is a single parsed help page.
type Page struct {
	ID    string
	Type  string
	Style string

	// Lang is the locale directory the page was loaded from ("C" for source).
	Lang string
	// File is the path the page was parsed from, relative to the help tree.
	File string

	Info     Info
	Title    string
	Blocks   []Block
	Sections []*Section
}

// Info is the page metadata block.
type Info struct {
	Links     []InfoLink
	Revisions []Revision
	Credits   []Credit
	Desc      string
	License   License
}

// InfoLink relates the page to another page (guide, seealso, topic).
type InfoLink struct {
	Type string
	Xref string
}

// Revision is a single revision stamp.
type Revision struct {
	PkgVersion string
	Version    string
	Date       string
	Status     string
}

// Credit is an authorship or contributor credit. Type holds the space
// separated role list from the type attribute ("author maintainer").
type Credit struct {
	Type  string
	Name  string
	Email string
}

// Roles splits the credit type attribute into individual roles.
func (c Credit) Roles() []string {
	return strings.Fields(c.Type)
}

// License is the page license statement.
type License struct {
	Href string
	Text string
}

// Section is a titled subdivision of a page. Sections nest.
type Section struct {
	ID       string
	Title    string
	Blocks   []Block
	Sections []*Section
}

// BlockKind discriminates block-level content.
type BlockKind string

const (
	BlockParagraph BlockKind = "p"
	BlockFigure    BlockKind = "figure"
	BlockNote      BlockKind = "note"
	BlockCode      BlockKind = "code"
	BlockScreen    BlockKind = "screen"
	BlockList      BlockKind = "list"
	BlockSteps     BlockKind = "steps"
)

// Block is a block-level content node.
type Block struct {
	Kind    BlockKind
	Inlines []Inline // paragraph content, or verbatim text for code/screen
	Figure  *Figure  // set for BlockFigure
	Style   string   // note style ("tip", "warning", ...)
	Blocks  []Block  // note children
	Items   [][]Block
}

// Figure is an image with an optional title and description.
type Figure struct {
	Title string
	Desc  []Inline
	Media Media
}

// Media references an image or video asset by path.
type Media struct {
	Type string
	Src  string
	Alt  string
}

// InlineKind discriminates inline content.
type InlineKind string

const (
	InlineText  InlineKind = "text"
	InlineLink  InlineKind = "link"
	InlineEm    InlineKind = "em"
	InlineGui   InlineKind = "gui"
	InlineKey   InlineKind = "key"
	InlineApp   InlineKind = "app"
	InlineFile  InlineKind = "file"
	InlineCode  InlineKind = "code"
	InlineMedia InlineKind = "media"
)

// Inline is an inline content node. Text carries character data for
// InlineText and InlineCode; Xref/Href carry link targets; Src carries
// inline media paths; Children carry nested content for container kinds.
type Inline struct {
	Kind     InlineKind
	Text     string
	Xref     string
	Href     string
	Src      string
	Children []Inline
}

// PlainText flattens inline content to its character data.
func PlainText(inlines []Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case InlineText, InlineCode:
			sb.WriteString(in.Text)
		default:
			sb.WriteString(PlainText(in.Children))
		}
	}
	return sb.String()
}

// SectionByID returns the section with the given id, searching nested
// sections depth-first, or nil.
func (p *Page) SectionByID(id string) *Section {
	return findSection(p.Sections, id)
}

func findSection(sections []*Section, id string) *Section {
	for _, s := range sections {
		if s.ID == id {
			return s
		}
		if found := findSection(s.Sections, id); found != nil {
			return found
		}
	}
	return nil
}

// HasCredit reports whether any credit carries the given role.
func (p *Page) HasCredit(role string) bool {
	for _, c := range p.Info.Credits {
		for _, r := range c.Roles() {
			if r == role {
				return true
			}
		}
	}
	return false
}

// GuideXrefs returns the xref targets of the info links with type "guide".
func (p *Page) GuideXrefs() []string {
	var out []string
	for _, l := range p.Info.Links {
		if l.Type == "guide" {
			out = append(out, l.Xref)
		}
	}
	return out
}
