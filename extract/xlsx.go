package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docsift/docsift/chunker"
)

// XLSXExtractor extracts spreadsheet workbooks. Each non-empty sheet
// becomes one page, rendered as pipe-joined rows in the text output and
// as a heading plus table in the Markdown output.
type XLSXExtractor struct{}

func (e *XLSXExtractor) Formats() []string { return []string{"xlsx", "xlsm"} }

func (e *XLSXExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	var md strings.Builder
	var pages []chunker.PageBoundary

	sheets := f.GetSheetList()
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) == 0 {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
			md.WriteString("\n\n")
		}
		start := text.Len()
		text.WriteString(sheetText(sheet, rows))
		md.WriteString(sheetMarkdown(sheet, rows))
		pages = append(pages, chunker.PageBoundary{
			CharStart: start,
			CharEnd:   text.Len(),
			Page:      i + 1,
		})
	}

	var meta map[string]string
	if len(sheets) > 0 {
		meta = map[string]string{"sheet_count": fmt.Sprintf("%d", len(sheets))}
	}
	return &Result{
		Text:     text.String(),
		Markdown: md.String(),
		Pages:    pages,
		Metadata: meta,
	}, nil
}

func sheetText(sheet string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, sheet)
	for _, row := range rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// sheetMarkdown renders one sheet as a heading followed by a table whose
// header is the first row.
func sheetMarkdown(sheet string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("## " + sheet + "\n\n")

	b.WriteString("| " + strings.Join(rows[0], " | ") + " |")
	if cols := len(rows[0]); cols > 0 {
		b.WriteString("\n|" + strings.Repeat(" --- |", cols))
	}
	for _, row := range rows[1:] {
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}
	return b.String()
}
