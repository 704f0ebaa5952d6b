// Package extract routes document bytes to format-specific extractors.
// Each extractor turns one input format into plain text, Markdown, and
// optional page boundaries that the chunker can attach to chunk metadata.
package extract

import (
	"context"
	"errors"

	"github.com/docsift/docsift/chunker"
)

// ErrUnsupportedFormat is returned when no extractor handles a format.
var ErrUnsupportedFormat = errors.New("extract: unsupported format")

// Result is what an extractor produces from document bytes.
type Result struct {
	Text     string                 // Plain text rendition of the document
	Markdown string                 // Markdown rendition; equals Text for formats without structure
	Pages    []chunker.PageBoundary // Offsets into Text; empty for unpaginated formats
	Metadata map[string]string
}

// Extractor can extract a specific document format.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Result, error)
	Formats() []string
}
