package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsift/docsift/chunker"
)

// PDFExtractor extracts text from PDF files page by page. Each page that
// yields text becomes one PageBoundary over the joined output.
type PDFExtractor struct{}

func (e *PDFExtractor) Formats() []string { return []string{"pdf"} }

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	var text strings.Builder
	var pages []chunker.PageBoundary

	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}

		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		start := text.Len()
		text.WriteString(content)
		pages = append(pages, chunker.PageBoundary{
			CharStart: start,
			CharEnd:   text.Len(),
			Page:      i,
		})
	}

	out := text.String()
	return &Result{
		Text:     out,
		Markdown: out,
		Pages:    pages,
		Metadata: pdfMetadata(reader),
	}, nil
}

// pdfMetadata pulls the usual fields out of the PDF Info dictionary.
func pdfMetadata(reader *pdf.Reader) map[string]string {
	trailer := reader.Trailer()
	if trailer.IsNull() {
		return nil
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return nil
	}

	meta := make(map[string]string)
	for key, name := range map[string]string{
		"title":    "Title",
		"author":   "Author",
		"subject":  "Subject",
		"keywords": "Keywords",
		"creator":  "Creator",
		"producer": "Producer",
	} {
		if v := info.Key(name); !v.IsNull() {
			if s := v.Text(); s != "" {
				meta[key] = s
			}
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
