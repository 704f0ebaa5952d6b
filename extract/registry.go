package extract

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps format names to extractors.
type Registry struct {
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	// Register built-in extractors
	docx := &DOCXExtractor{}
	pdf := &PDFExtractor{}
	xlsx := &XLSXExtractor{}
	pptx := &PPTXExtractor{}
	html := &HTMLExtractor{}
	text := &TextExtractor{}
	legacy := &LegacyExtractor{}

	for _, e := range []Extractor{docx, pdf, xlsx, pptx, html, text, legacy} {
		for _, f := range e.Formats() {
			r.extractors[f] = e
		}
	}
	return r
}

// Get returns the extractor for a format name. Names are matched
// lowercased and without a leading dot, so "DOCX" and ".docx" both work.
func (r *Registry) Get(format string) (Extractor, error) {
	e, ok := r.extractors[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return e, nil
}

func (r *Registry) Register(format string, e Extractor) {
	r.extractors[normalizeFormat(format)] = e
}

// Formats returns every registered format name, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}
