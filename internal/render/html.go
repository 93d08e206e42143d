package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/thiblahute/pitivi-old/internal/mallard"
)

// xrefHref translates a Mallard xref destination into a relative href within
// the rendered locale directory.
func xrefHref(dest string) string {
	pageID, sectionID := mallard.XrefTarget(dest)
	href := pageID + ".html"
	if pageID == "" {
		href = ""
	}
	if sectionID != "" {
		href += "#" + sectionID
	}
	return href
}

// renderBody produces the article body for a page: leading blocks followed
// by the section tree. Heading levels start at h2; h1 is the page title.
func renderBody(page *mallard.Page) string {
	var sb strings.Builder
	writeBlocks(&sb, page.Blocks)
	for _, sec := range page.Sections {
		writeSection(&sb, sec, 2)
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, sec *mallard.Section, level int) {
	if level > 6 {
		level = 6
	}
	if sec.ID != "" {
		fmt.Fprintf(sb, "<section id=%q>\n", sec.ID)
	} else {
		sb.WriteString("<section>\n")
	}
	if sec.Title != "" {
		fmt.Fprintf(sb, "<h%d>%s</h%d>\n", level, html.EscapeString(sec.Title), level)
	}
	writeBlocks(sb, sec.Blocks)
	for _, nested := range sec.Sections {
		writeSection(sb, nested, level+1)
	}
	sb.WriteString("</section>\n")
}

func writeBlocks(sb *strings.Builder, blocks []mallard.Block) {
	for _, b := range blocks {
		writeBlock(sb, b)
	}
}

func writeBlock(sb *strings.Builder, b mallard.Block) {
	switch b.Kind {
	case mallard.BlockParagraph:
		sb.WriteString("<p>")
		writeInlines(sb, b.Inlines)
		sb.WriteString("</p>\n")
	case mallard.BlockFigure:
		writeFigure(sb, b.Figure)
	case mallard.BlockNote:
		style := b.Style
		if style == "" {
			style = "note"
		}
		fmt.Fprintf(sb, "<div class=\"note note-%s\">\n", html.EscapeString(style))
		writeBlocks(sb, b.Blocks)
		sb.WriteString("</div>\n")
	case mallard.BlockCode:
		sb.WriteString("<pre><code>")
		sb.WriteString(html.EscapeString(mallard.PlainText(b.Inlines)))
		sb.WriteString("</code></pre>\n")
	case mallard.BlockScreen:
		sb.WriteString("<pre class=\"screen\">")
		sb.WriteString(html.EscapeString(mallard.PlainText(b.Inlines)))
		sb.WriteString("</pre>\n")
	case mallard.BlockList, mallard.BlockSteps:
		tag := "ul"
		class := ""
		if b.Kind == mallard.BlockSteps {
			tag = "ol"
			class = " class=\"steps\""
		}
		fmt.Fprintf(sb, "<%s%s>\n", tag, class)
		for _, item := range b.Items {
			sb.WriteString("<li>")
			writeBlocks(sb, item)
			sb.WriteString("</li>\n")
		}
		fmt.Fprintf(sb, "</%s>\n", tag)
	}
}

func writeFigure(sb *strings.Builder, fig *mallard.Figure) {
	if fig == nil {
		return
	}
	sb.WriteString("<figure>\n")
	fmt.Fprintf(sb, "<img src=%q alt=%q>\n", fig.Media.Src, fig.Media.Alt)
	if fig.Title != "" || len(fig.Desc) > 0 {
		sb.WriteString("<figcaption>")
		if fig.Title != "" {
			fmt.Fprintf(sb, "<strong>%s</strong>", html.EscapeString(fig.Title))
		}
		if len(fig.Desc) > 0 {
			if fig.Title != "" {
				sb.WriteString(" ")
			}
			writeInlines(sb, fig.Desc)
		}
		sb.WriteString("</figcaption>\n")
	}
	sb.WriteString("</figure>\n")
}

func writeInlines(sb *strings.Builder, inlines []mallard.Inline) {
	for _, in := range inlines {
		writeInline(sb, in)
	}
}

func writeInline(sb *strings.Builder, in mallard.Inline) {
	switch in.Kind {
	case mallard.InlineText:
		sb.WriteString(html.EscapeString(in.Text))
	case mallard.InlineLink:
		href := in.Href
		if in.Xref != "" {
			href = xrefHref(in.Xref)
		}
		fmt.Fprintf(sb, "<a href=%q>", href)
		writeInlines(sb, in.Children)
		sb.WriteString("</a>")
	case mallard.InlineEm:
		sb.WriteString("<em>")
		writeInlines(sb, in.Children)
		sb.WriteString("</em>")
	case mallard.InlineGui:
		sb.WriteString("<span class=\"gui\">")
		writeInlines(sb, in.Children)
		sb.WriteString("</span>")
	case mallard.InlineKey:
		sb.WriteString("<kbd>")
		writeInlines(sb, in.Children)
		sb.WriteString("</kbd>")
	case mallard.InlineApp:
		sb.WriteString("<span class=\"app\">")
		writeInlines(sb, in.Children)
		sb.WriteString("</span>")
	case mallard.InlineFile:
		sb.WriteString("<code class=\"file\">")
		writeInlines(sb, in.Children)
		sb.WriteString("</code>")
	case mallard.InlineCode:
		sb.WriteString("<code>")
		sb.WriteString(html.EscapeString(in.Text))
		sb.WriteString("</code>")
	case mallard.InlineMedia:
		fmt.Fprintf(sb, "<img src=%q alt=%q>", in.Src, in.Text)
	}
}
