package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiblahute/pitivi-old/internal/mallard"
	"github.com/thiblahute/pitivi-old/internal/markdown"
	"github.com/thiblahute/pitivi-old/internal/testutil"
)

func TestParsePageMetadata(t *testing.T) {
	page, err := markdown.ParsePage([]byte(testutil.EffectsMarkdown), "fallback")
	require.NoError(t, err)

	assert.Equal(t, "effects", page.ID)
	assert.Equal(t, "topic", page.Type)
	assert.Equal(t, "Effects", page.Title)
	assert.Equal(t, "Applying and configuring clip effects.", page.Info.Desc)
	assert.Equal(t, "Creative Commons Share Alike 3.0", page.Info.License.Text)

	require.Len(t, page.Info.Credits, 1)
	assert.Equal(t, "Jean Example", page.Info.Credits[0].Name)
	assert.True(t, page.HasCredit("author"))

	assert.Equal(t, []string{"index"}, page.GuideXrefs())
}

func TestParsePageFallbackID(t *testing.T) {
	page, err := markdown.ParsePage([]byte("# Untitled\n\nBody.\n"), "untitled")
	require.NoError(t, err)
	assert.Equal(t, "untitled", page.ID)
	assert.Equal(t, "Untitled", page.Title)
}

func TestHeadingsBecomeSections(t *testing.T) {
	page, err := markdown.ParsePage([]byte(testutil.EffectsMarkdown), "effects")
	require.NoError(t, err)

	require.Len(t, page.Sections, 1)
	sec := page.SectionByID("adding-an-effect")
	require.NotNil(t, sec)
	assert.Equal(t, "Adding an effect", sec.Title)
	require.NotEmpty(t, sec.Blocks)
}

func TestNestedSections(t *testing.T) {
	src := "# T\n\n## Outer\n\ntext\n\n### Inner\n\nmore\n\n## Second\n\nend\n"
	page, err := markdown.ParsePage([]byte(src), "t")
	require.NoError(t, err)

	require.Len(t, page.Sections, 2)
	outer := page.Sections[0]
	assert.Equal(t, "Outer", outer.Title)
	require.Len(t, outer.Sections, 1)
	assert.Equal(t, "Inner", outer.Sections[0].Title)
	assert.Equal(t, "Second", page.Sections[1].Title)
}

func TestRelativeLinksBecomeXrefs(t *testing.T) {
	page, err := markdown.ParsePage([]byte(testutil.EffectsMarkdown), "effects")
	require.NoError(t, err)

	links := mallard.ExtractLinks(page)
	var xrefs []string
	for _, l := range links {
		if l.Kind == mallard.LinkKindXref {
			xrefs = append(xrefs, l.Destination)
		}
	}
	assert.Contains(t, xrefs, "trimming")
}

func TestExternalLinksKeepHref(t *testing.T) {
	src := "# T\n\nSee [the site](https://example.org/docs) and [local](other.page#sec).\n"
	page, err := markdown.ParsePage([]byte(src), "t")
	require.NoError(t, err)

	links := mallard.ExtractLinks(page)
	byKind := map[mallard.LinkKind][]string{}
	for _, l := range links {
		byKind[l.Kind] = append(byKind[l.Kind], l.Destination)
	}
	assert.Equal(t, []string{"https://example.org/docs"}, byKind[mallard.LinkKindExternal])
	assert.Equal(t, []string{"other#sec"}, byKind[mallard.LinkKindXref])
}

func TestImageParagraphBecomesFigure(t *testing.T) {
	src := "# T\n\n![A timeline](figures/timeline.png)\n"
	page, err := markdown.ParsePage([]byte(src), "t")
	require.NoError(t, err)

	require.Len(t, page.Blocks, 1)
	require.Equal(t, mallard.BlockFigure, page.Blocks[0].Kind)
	fig := page.Blocks[0].Figure
	require.NotNil(t, fig)
	assert.Equal(t, "figures/timeline.png", fig.Media.Src)
	assert.Equal(t, "A timeline", fig.Media.Alt)
}

func TestOrderedListBecomesSteps(t *testing.T) {
	src := "# T\n\n1. First\n2. Second\n\n- one\n- two\n"
	page, err := markdown.ParsePage([]byte(src), "t")
	require.NoError(t, err)

	require.Len(t, page.Blocks, 2)
	assert.Equal(t, mallard.BlockSteps, page.Blocks[0].Kind)
	assert.Len(t, page.Blocks[0].Items, 2)
	assert.Equal(t, mallard.BlockList, page.Blocks[1].Kind)
}

func TestSplitFrontmatter(t *testing.T) {
	fm, body, err := markdown.SplitFrontmatter([]byte(testutil.EffectsMarkdown))
	require.NoError(t, err)
	assert.Equal(t, "effects", fm.ID)
	assert.Contains(t, string(body), "# Effects")

	fm, body, err = markdown.SplitFrontmatter([]byte("plain body\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.ID)
	assert.Equal(t, "plain body\n", string(body))
}

func TestSplitFrontmatterSkipsByteOrderMark(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("---\nid: bom\n---\nbody\n")...)
	fm, body, err := markdown.SplitFrontmatter(src)
	require.NoError(t, err)
	assert.Equal(t, "bom", fm.ID)
	assert.Equal(t, "body\n", string(body))
}
