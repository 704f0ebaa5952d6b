package extract

import (
	"context"
	"strings"
)

// TextExtractor passes plain text and Markdown files through unchanged
// apart from newline normalization.
type TextExtractor struct{}

func (e *TextExtractor) Formats() []string { return []string{"txt", "md", "markdown"} }

func (e *TextExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	content := normalizeNewlines(string(data))
	return &Result{
		Text:     content,
		Markdown: content,
	}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
