// Package testutil builds small help trees on disk for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// IndexPage is a minimal guide page referenced by the other fixtures.
const IndexPage = `<page xmlns="http://projectmallard.org/1.0/"
      type="guide"
      id="index">
  <info>
    <desc>Editing video, one page at a time.</desc>
    <credit type="author">
      <name>Jean Example</name>
      <email>jean@example.org</email>
    </credit>
    <license href="http://creativecommons.org/licenses/by-sa/3.0/">
      <p>Creative Commons Share Alike 3.0</p>
    </license>
  </info>
  <title>Video Editor Help</title>
  <p>Welcome to the editor documentation.</p>
</page>
`

// TrimmingPage exercises sections, figures, inline markup and cross-references.
const TrimmingPage = `<page xmlns="http://projectmallard.org/1.0/"
      type="topic"
      id="trimming">
  <info>
    <link type="guide" xref="index"/>
    <link type="seealso" xref="index"/>
    <desc>Shortening clips by moving their edit points.</desc>
    <credit type="author">
      <name>Jean Example</name>
      <email>jean@example.org</email>
    </credit>
    <license href="http://creativecommons.org/licenses/by-sa/3.0/">
      <p>Creative Commons Share Alike 3.0</p>
    </license>
  </info>
  <title>Trimming</title>
  <p>Trimming changes where a clip starts or ends on the <gui>timeline</gui>.</p>
  <section id="ripple">
    <title>Ripple editing</title>
    <p>A ripple edit moves every following clip to close the gap.</p>
    <figure>
      <title>Before the ripple edit</title>
      <media type="image" src="figures/ripple-before.png" alt="Timeline before rippling"/>
    </figure>
    <figure>
      <title>After the ripple edit</title>
      <media type="image" src="figures/ripple-after.png" alt="Timeline after rippling"/>
    </figure>
    <note style="tip">
      <p>Hold <key>Shift</key> while dragging to ripple.</p>
    </note>
  </section>
  <section id="roll">
    <title>Roll editing</title>
    <p>A roll edit moves the cut point between two clips, leaving the rest in place. See <link xref="index">the index</link> for other techniques.</p>
  </section>
</page>
`

// EffectsMarkdown is a Markdown page with full frontmatter.
const EffectsMarkdown = `---
id: effects
title: Effects
desc: Applying and configuring clip effects.
license: Creative Commons Share Alike 3.0
guide:
  - index
authors:
  - name: Jean Example
    email: jean@example.org
---

# Effects

Effects change how a clip looks or sounds.

## Adding an effect

Drag an effect from the library onto a clip. See [Trimming](trimming) for
cutting clips first.
`

// TrimmingPageFR is a translated copy of the trimming page.
const TrimmingPageFR = `<page xmlns="http://projectmallard.org/1.0/"
      type="topic"
      id="trimming">
  <info>
    <link type="guide" xref="index"/>
    <desc>Raccourcir les plans en d&#233;pla&#231;ant leurs points de montage.</desc>
    <credit type="author">
      <name>Jean Example</name>
    </credit>
    <license href="http://creativecommons.org/licenses/by-sa/3.0/">
      <p>Creative Commons Share Alike 3.0</p>
    </license>
  </info>
  <title>Rognage</title>
  <p>Le rognage change le d&#233;but ou la fin d'un plan.</p>
  <section id="ripple">
    <title>Ripple editing</title>
    <p>Un montage ripple d&#233;cale les plans suivants.</p>
  </section>
  <section id="roll">
    <title>Roll editing</title>
    <p>Un montage roll d&#233;place le point de coupe.</p>
  </section>
</page>
`

// Manifest declares the fixture tree: three source pages, one lingua and
// the two ripple figures.
const Manifest = `id: pitivi
title: Video Editor Help
linguas:
  - fr
figures:
  - figures/ripple-before.png
  - figures/ripple-after.png
pages:
  - index.page
  - trimming.page
  - effects.md
`

// pngStub is a 1x1 transparent PNG, enough for existence checks and copies.
var pngStub = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// WriteHelpTree writes a complete help tree into a temp directory and
// returns the manifest path.
func WriteHelpTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"help.yaml":        Manifest,
		"C/index.page":     IndexPage,
		"C/trimming.page":  TrimmingPage,
		"C/effects.md":     EffectsMarkdown,
		"fr/trimming.page": TrimmingPageFR,
	}
	for rel, content := range files {
		WriteFile(t, dir, rel, []byte(content))
	}
	WriteFile(t, dir, "C/figures/ripple-before.png", pngStub)
	WriteFile(t, dir, "C/figures/ripple-after.png", pngStub)

	return filepath.Join(dir, "help.yaml")
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t *testing.T, dir, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}
