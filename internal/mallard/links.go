package mallard

import "strings"

type LinkKind string

const (
	// LinkKindXref is an in-document cross-reference to another page id.
	LinkKindXref LinkKind = "xref"
	// LinkKindGuide is an info-block link relating the page to a guide.
	LinkKindGuide LinkKind = "guide"
	// LinkKindSeeAlso is an info-block seealso relation.
	LinkKindSeeAlso LinkKind = "seealso"
	// LinkKindExternal is an href link leaving the document set.
	LinkKindExternal LinkKind = "external"
	// LinkKindMedia is a media (figure or inline image) reference.
	LinkKindMedia LinkKind = "media"
)

// Link is a single outgoing reference found in a page.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks walks a parsed page and collects every outgoing reference:
// info-block relations, inline cross-references and hrefs, and media paths.
//
// This is an analysis API; it does not attempt to re-render the page.
func ExtractLinks(page *Page) []Link {
	links := make([]Link, 0)

	for _, il := range page.Info.Links {
		kind := LinkKindGuide
		if il.Type == "seealso" {
			kind = LinkKindSeeAlso
		}
		if il.Xref != "" {
			links = append(links, Link{Kind: kind, Destination: il.Xref})
		}
	}

	links = append(links, blockLinks(page.Blocks)...)
	for _, sec := range page.Sections {
		links = append(links, sectionLinks(sec)...)
	}
	return links
}

// XrefTarget splits an xref destination into page id and section id.
// "index#timeline" refers to section "timeline" of page "index"; a bare
// "#timeline" refers to the current page.
func XrefTarget(dest string) (pageID, sectionID string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i+1:]
	}
	return dest, ""
}

func sectionLinks(sec *Section) []Link {
	links := blockLinks(sec.Blocks)
	for _, nested := range sec.Sections {
		links = append(links, sectionLinks(nested)...)
	}
	return links
}

func blockLinks(blocks []Block) []Link {
	var links []Link
	for _, b := range blocks {
		switch b.Kind {
		case BlockFigure:
			if b.Figure != nil && b.Figure.Media.Src != "" {
				links = append(links, Link{Kind: LinkKindMedia, Destination: b.Figure.Media.Src})
			}
			if b.Figure != nil {
				links = append(links, inlineLinks(b.Figure.Desc)...)
			}
		case BlockNote:
			links = append(links, blockLinks(b.Blocks)...)
		case BlockList, BlockSteps:
			for _, item := range b.Items {
				links = append(links, blockLinks(item)...)
			}
		default:
			links = append(links, inlineLinks(b.Inlines)...)
		}
	}
	return links
}

func inlineLinks(inlines []Inline) []Link {
	var links []Link
	for _, in := range inlines {
		switch in.Kind {
		case InlineLink:
			if in.Xref != "" {
				links = append(links, Link{Kind: LinkKindXref, Destination: in.Xref})
			} else if in.Href != "" {
				links = append(links, Link{Kind: LinkKindExternal, Destination: in.Href})
			}
		case InlineMedia:
			if in.Src != "" {
				links = append(links, Link{Kind: LinkKindMedia, Destination: in.Src})
			}
		}
		links = append(links, inlineLinks(in.Children)...)
	}
	return links
}
