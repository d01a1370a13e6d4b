// Package source loads slides from deck files. Each supported file type
// registers a Format; unknown extensions are read as Markdown.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/metcalfc/folio/internal/deck"
)

// Widget names recognised in slide sources.
const (
	WidgetGrades = "grades"
	WidgetScorer = "scorer"
)

// Document is the raw result of loading a deck file.
type Document struct {
	Title        string
	Slides       []deck.Slide
	SectionNames []string
}

// Format defines a deck file format.
type Format interface {
	Name() string
	Extensions() []string
	Load(filename string) (*Document, error)
}

var (
	registry []Format
	fallback Format = &MarkdownFormat{}
)

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// ForFile returns the format registered for filename's extension, or the
// Markdown format when none matches.
func ForFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return fallback
}

// Load reads filename with the matching format.
func Load(filename string) (*Document, error) {
	f := ForFile(filename)
	doc, err := f.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("load %s deck %s: %w", f.Name(), filename, err)
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return doc, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// Names merges configured section names over the names declared by the
// source. A blank configured name keeps the source name.
func Names(configured, declared []string) []string {
	n := max(len(configured), len(declared))
	out := make([]string, n)
	for i := range out {
		if i < len(declared) {
			out[i] = declared[i]
		}
		if i < len(configured) && strings.TrimSpace(configured[i]) != "" {
			out[i] = configured[i]
		}
	}
	return out
}
