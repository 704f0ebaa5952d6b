package docx

import (
	"fmt"
	"strconv"
	"strings"
)

// Markdown renders the document to GitHub-flavored Markdown. Output is a
// pure function of element order and the numbering definitions; identical
// documents render byte-identically.
func (d *Document) Markdown() string {
	r := &mdRenderer{doc: d, counters: make(map[NumberingKey]int)}
	return r.render()
}

// mdRenderer carries the per-call state: numbered list counters start at
// 1 for every render and never reset mid-document.
type mdRenderer struct {
	doc      *Document
	counters map[NumberingKey]int
}

type mdBlock struct {
	text    string
	isList  bool
	isTable bool
}

func (r *mdRenderer) render() string {
	var blocks []mdBlock

	for _, el := range r.doc.Elements {
		switch el.Kind {
		case ElementParagraph:
			if b, ok := r.renderParagraph(r.doc.Paragraphs[el.Index]); ok {
				blocks = append(blocks, b)
			}
		case ElementTable:
			if t := renderTable(r.doc.Tables[el.Index]); t != "" {
				blocks = append(blocks, mdBlock{text: t, isTable: true})
			}
		}
	}

	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString(separator(blocks[i-1], b))
		}
		sb.WriteString(b.text)
	}

	if notes := r.renderNotes(); notes != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(notes)
	}
	return sb.String()
}

// separator joins two consecutive blocks: tables are always set off by a
// blank line, blocks of the same list-ness stay tight, and every
// list/non-list transition gets exactly one blank line.
func separator(prev, next mdBlock) string {
	if prev.isTable || next.isTable {
		return "\n\n"
	}
	if prev.isList == next.isList {
		return "\n"
	}
	return "\n\n"
}

// renderParagraph produces one block. A paragraph with no runs and no
// heading or list context contributes nothing.
func (r *mdRenderer) renderParagraph(p Paragraph) (mdBlock, bool) {
	if level, ok := headingLevel(p.Style); ok {
		prefix := strings.Repeat("#", level)
		if text := renderRuns(p.Runs); text != "" {
			return mdBlock{text: prefix + " " + text}, true
		}
		return mdBlock{text: prefix}, true
	}

	if p.NumID != nil && p.Level != nil {
		return mdBlock{text: r.renderListItem(p), isList: true}, true
	}

	text := renderRuns(p.Runs)
	if text == "" {
		return mdBlock{}, false
	}
	return mdBlock{text: text}, true
}

// headingLevel maps a paragraph style to a markdown heading level:
// Title is H1 and HeadingN is H(N+1), clamped to H6.
func headingLevel(style string) (int, bool) {
	if style == "Title" {
		return 1, true
	}
	rest, ok := strings.CutPrefix(style, "Heading")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	level := n + 1
	if level > 6 {
		level = 6
	}
	if level < 1 {
		level = 1
	}
	return level, true
}

func (r *mdRenderer) renderListItem(p Paragraph) string {
	level := *p.Level
	if level < 0 {
		level = 0
	}
	indent := strings.Repeat("  ", level)
	text := renderRuns(p.Runs)

	marker := "-"
	if r.doc.listType(*p.NumID, level) == ListNumbered {
		key := NumberingKey{NumID: *p.NumID, Level: level}
		r.counters[key]++
		marker = fmt.Sprintf("%d.", r.counters[key])
	}
	if text == "" {
		return indent + marker
	}
	return indent + marker + " " + text
}

func renderRuns(runs []Run) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(formatRun(run))
	}
	return b.String()
}

// formatRun applies the fixed nesting order: emphasis innermost, then
// strikethrough, hyperlink outermost. Underline has no markdown form.
func formatRun(r Run) string {
	text := r.Text
	switch {
	case r.Bold && r.Italic:
		text = "***" + text + "***"
	case r.Bold:
		text = "**" + text + "**"
	case r.Italic:
		text = "*" + text + "*"
	}
	if r.Strikethrough {
		text = "~~" + text + "~~"
	}
	if r.HyperlinkURL != "" {
		text = "[" + text + "](" + r.HyperlinkURL + ")"
	}
	return text
}

// renderTable lays out a GFM pipe table. Ragged rows are padded to the
// widest row; every column is at least three characters wide so the
// separator row stays valid. A table with no rows or no resolvable
// columns renders as the empty string.
func renderTable(t Table) string {
	if len(t.Rows) == 0 {
		return ""
	}

	cols := 0
	for _, row := range t.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	if cols == 0 {
		return ""
	}

	cells := make([][]string, len(t.Rows))
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = 3
	}
	for i, row := range t.Rows {
		cells[i] = make([]string, cols)
		for j := range cells[i] {
			if j < len(row.Cells) {
				cells[i][j] = cellMarkdown(row.Cells[j])
			}
			if len(cells[i][j]) > widths[j] {
				widths[j] = len(cells[i][j])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for j, c := range row {
			sb.WriteString(" ")
			sb.WriteString(c)
			sb.WriteString(strings.Repeat(" ", widths[j]-len(c)))
			sb.WriteString(" |")
		}
	}

	writeRow(cells[0])
	sb.WriteString("\n|")
	for _, w := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}
	for _, row := range cells[1:] {
		sb.WriteString("\n")
		writeRow(row)
	}
	return sb.String()
}

// cellMarkdown flattens a cell to a single line: paragraph runs joined
// by spaces, embedded newlines collapsed so the pipe row stays intact.
func cellMarkdown(c TableCell) string {
	var parts []string
	for _, p := range c.Paragraphs {
		if t := renderRuns(p.Runs); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.ReplaceAll(strings.Join(parts, " "), "\n", " ")
}

// renderNotes emits footnote definitions, footnotes before endnotes.
func (r *mdRenderer) renderNotes() string {
	var lines []string
	for _, n := range r.doc.Footnotes {
		lines = append(lines, noteLine(n))
	}
	for _, n := range r.doc.Endnotes {
		lines = append(lines, noteLine(n))
	}
	return strings.Join(lines, "\n")
}

func noteLine(n Note) string {
	var parts []string
	for _, p := range n.Paragraphs {
		if t := renderRuns(p.Runs); t != "" {
			parts = append(parts, t)
		}
	}
	return "[^" + n.ID + "]: " + strings.Join(parts, " ")
}
