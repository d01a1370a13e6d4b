package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"talk.md", "Markdown"},
		{"talk.MARKDOWN", "Markdown"},
		{"notes.txt", "Markdown"},
		{"portfolio.html", "HTML"},
		{"portfolio.htm", "HTML"},
		{"book.epub", "EPUB"},
		{"README", "Markdown"},
		{"deck.slides", "Markdown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ForFile(tt.filename).Name(), tt.filename)
	}
}

func TestLoadDefaultsTitleToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarterly-review.md")
	require.NoError(t, os.WriteFile(path, []byte("Just text.\n"), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quarterly-review", doc.Title)
	require.Len(t, doc.Slides, 1)
}

func TestLoadWrapsErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "load HTML deck")
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "Markdown (.md, .markdown, .txt)")
	assert.Contains(t, formats, "HTML (.html, .htm)")
	assert.Contains(t, formats, "EPUB (.epub)")
}

func TestNames(t *testing.T) {
	got := Names([]string{"", "Architecture", "Delivery"}, []string{"Intro", "Design"})
	assert.Equal(t, []string{"Intro", "Architecture", "Delivery"}, got)

	assert.Equal(t, []string{"A"}, Names(nil, []string{"A"}))
	assert.Empty(t, Names(nil, nil))
}
