// Package docx parses zip-based OOXML word-processing documents into a
// structured model and renders that model to Markdown or plain text.
//
// Parsing is a single forward-only scan over the XML parts: no DOM is
// built, and the returned Document is immutable once constructed.
package docx

import "strings"

// ElementKind distinguishes the body-level block types a Document can hold.
type ElementKind int

const (
	ElementParagraph ElementKind = iota
	ElementTable
)

// String returns a human-readable name for the element kind.
func (k ElementKind) String() string {
	switch k {
	case ElementParagraph:
		return "paragraph"
	case ElementTable:
		return "table"
	default:
		return "unknown"
	}
}

// Element references one body-level block. Kind selects the target slice
// (Document.Paragraphs or Document.Tables) and Index points into it.
// Elements preserve the source interleaving of paragraphs and tables.
type Element struct {
	Kind  ElementKind
	Index int
}

// ListType classifies a numbering definition level.
type ListType int

const (
	ListBullet ListType = iota
	ListNumbered
)

// String returns a human-readable name for the list type.
func (t ListType) String() string {
	switch t {
	case ListNumbered:
		return "numbered"
	default:
		return "bullet"
	}
}

// NumberingKey identifies one level of one concrete numbering definition.
type NumberingKey struct {
	NumID int
	Level int
}

// NoteType distinguishes footnotes from endnotes.
type NoteType int

const (
	NoteFootnote NoteType = iota
	NoteEndnote
)

// String returns a human-readable name for the note type.
func (t NoteType) String() string {
	switch t {
	case NoteEndnote:
		return "endnote"
	default:
		return "footnote"
	}
}

// HeaderFooterType records which page class a header or footer part
// applies to, per its section reference.
type HeaderFooterType int

const (
	HeaderFooterDefault HeaderFooterType = iota
	HeaderFooterFirst
	HeaderFooterEven
	HeaderFooterOdd
)

// String returns a human-readable name for the header/footer type.
func (t HeaderFooterType) String() string {
	switch t {
	case HeaderFooterFirst:
		return "first"
	case HeaderFooterEven:
		return "even"
	case HeaderFooterOdd:
		return "odd"
	default:
		return "default"
	}
}

// Run is a span of paragraph text sharing one formatting state.
// Formatting is per-run and never inherited between runs.
type Run struct {
	Text          string
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	HyperlinkURL  string // empty when the run is not inside a hyperlink
}

// Paragraph is an ordered sequence of runs with optional paragraph-level
// style and numbering. NumID and Level are either both set or both nil;
// when the source names a numbering definition without an explicit
// indent level, Level is 0.
type Paragraph struct {
	Runs  []Run
	Style string // heading style name such as "Heading1", empty when unstyled
	NumID *int
	Level *int
}

// Text concatenates the paragraph's run text without formatting.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// TableCell owns the ordered paragraphs of one cell. Content of nested
// tables is flattened into the enclosing cell.
type TableCell struct {
	Paragraphs []Paragraph
}

// Text joins the cell's paragraph text with single spaces.
func (c TableCell) Text() string {
	var b strings.Builder
	for _, p := range c.Paragraphs {
		t := p.Text()
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t)
	}
	return b.String()
}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Cells []TableCell
}

// Table is an ordered sequence of rows. Rows may be ragged.
type Table struct {
	Rows []TableRow
}

// ListItem is one derived list entry. Level is 0-based.
type ListItem struct {
	Level int
	Type  ListType
	Text  string
}

// Note is one footnote or endnote. Separator placeholders (ids "-1" and
// "0") never appear here.
type Note struct {
	ID         string
	Type       NoteType
	Paragraphs []Paragraph
}

// Text joins the note's paragraph text with single spaces.
func (n Note) Text() string {
	var b strings.Builder
	for _, p := range n.Paragraphs {
		t := p.Text()
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t)
	}
	return b.String()
}

// HeaderFooter holds the content of one header or footer part.
type HeaderFooter struct {
	Type       HeaderFooterType
	Paragraphs []Paragraph
	Tables     []Table
}

// Properties carries the Dublin Core metadata from docProps/core.xml.
type Properties struct {
	Title          string
	Creator        string
	Subject        string
	Description    string
	Keywords       string
	Created        string
	Modified       string
	LastModifiedBy string
}

// Document is the structured content of one parsed file.
//
// Elements records the source order of body-level paragraphs and tables;
// its indices are always valid into Paragraphs/Tables. Headers, footers
// and notes never appear in Elements.
type Document struct {
	Paragraphs []Paragraph
	Tables     []Table
	Headers    []HeaderFooter
	Footers    []HeaderFooter
	Footnotes  []Note
	Endnotes   []Note
	Numbering  map[NumberingKey]ListType
	Elements   []Element
	Properties Properties
}

// Lists derives the document's list items in body order: every paragraph
// carrying a numbering reference becomes one item, typed through the
// numbering definitions. References without a matching definition fall
// back to bullets.
func (d *Document) Lists() []ListItem {
	var items []ListItem
	for _, p := range d.Paragraphs {
		if p.NumID == nil || p.Level == nil {
			continue
		}
		items = append(items, ListItem{
			Level: *p.Level,
			Type:  d.listType(*p.NumID, *p.Level),
			Text:  p.Text(),
		})
	}
	return items
}

func (d *Document) listType(numID, level int) ListType {
	if t, ok := d.Numbering[NumberingKey{NumID: numID, Level: level}]; ok {
		return t
	}
	return ListBullet
}

// Text flattens the body to plain text in element order: one line per
// paragraph, tables as tab-separated cells with one line per row.
// Empty paragraphs contribute nothing.
func (d *Document) Text() string {
	var blocks []string
	for _, el := range d.Elements {
		switch el.Kind {
		case ElementParagraph:
			if t := d.Paragraphs[el.Index].Text(); t != "" {
				blocks = append(blocks, t)
			}
		case ElementTable:
			if t := flattenTable(d.Tables[el.Index]); t != "" {
				blocks = append(blocks, t)
			}
		}
	}
	return strings.Join(blocks, "\n")
}

func flattenTable(t Table) string {
	var rows []string
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.Text())
		}
		rows = append(rows, strings.Join(cells, "\t"))
	}
	return strings.Join(rows, "\n")
}
