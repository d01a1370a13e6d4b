package source

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func writeTestEPUB(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range []string{"mimetype", "META-INF/container.xml", "OEBPS/content.opf", "OEBPS/toc.ncx", "OEBPS/ch1.xhtml", "OEBPS/ch2.xhtml"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

var testEPUBFiles = map[string]string{
	"mimetype": "application/epub+zip",
	"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`,
	"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Field Notes</dc:title>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`,
	"OEBPS/toc.ncx": `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="n1" playOrder="1">
      <navLabel><text>Getting Started</text></navLabel>
      <content src="ch1.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`,
	"OEBPS/ch1.xhtml": `<html><body>
<p>Preface text.</p>
<h1>Chapter One</h1><p>First part.</p>
<div><h2>Details</h2><p>Second part.</p></div>
</body></html>`,
	"OEBPS/ch2.xhtml": `<html><body><h1>Closing</h1><p>The end.</p></body></html>`,
}

func TestEPUBLoad(t *testing.T) {
	path := writeTestEPUB(t, testEPUBFiles)

	doc, err := (&EPUBFormat{}).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Field Notes", doc.Title)
	assert.Equal(t, []string{"Getting Started", "Closing"}, doc.SectionNames)
	require.Len(t, doc.Slides, 4)

	titles := make([]string, len(doc.Slides))
	for i, s := range doc.Slides {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"", "Chapter One", "Details", "Closing"}, titles)
	assert.Equal(t, 2, doc.Slides[2].Index)
	assert.Equal(t, 1, doc.Slides[3].Section)
	assert.Equal(t, 0, doc.Slides[3].Index)
}

func TestEPUBLoadMissingFile(t *testing.T) {
	_, err := (&EPUBFormat{}).Load(filepath.Join(t.TempDir(), "nope.epub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open epub")
}

func TestSplitSlides(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<html><body>
<h2>One</h2><p>alpha</p>
<section><h1>Two</h1><p>beta</p><h2>Three</h2><p>gamma</p></section>
<h3>Not a split</h3><p>delta</p>
</body></html>`))
	require.NoError(t, err)
	slides := splitSlides(root)
	require.Len(t, slides, 3)

	assert.Equal(t, "One", slides[0].Title)
	assert.Equal(t, "One\nalpha", slides[0].Body)
	assert.Equal(t, "Two", slides[1].Title)
	assert.Equal(t, "Three", slides[2].Title)
	assert.Contains(t, slides[2].Body, "Not a split")
	assert.Contains(t, slides[2].Body, "delta")
}

func TestParseNCXTitles(t *testing.T) {
	titles := parseNCXTitles([]byte(`<ncx><navMap>
<navPoint><navLabel><text> Part I </text></navLabel><content src="text/part1.xhtml#start"/>
  <navPoint><navLabel><text>Nested</text></navLabel><content src="text/part1.xhtml#later"/></navPoint>
  <navPoint><navLabel><text>Chapter 2</text></navLabel><content src="text/ch2.xhtml"/></navPoint>
</navPoint>
</navMap></ncx>`))

	assert.Equal(t, "Part I", titles["text/part1.xhtml#start"])
	assert.Equal(t, "Part I", titles["text/part1.xhtml"])
	assert.Equal(t, "Part I", titles["part1.xhtml"])
	assert.Equal(t, "Nested", titles["text/part1.xhtml#later"])
	assert.Equal(t, "Chapter 2", titles["ch2.xhtml"])

	assert.Empty(t, parseNCXTitles([]byte("not xml")))
}
