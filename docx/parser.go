package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// nsWordML is the WordprocessingML main namespace.
const nsWordML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// partContent is everything one content part can yield. The document body
// fills paragraphs, tables, elements and section references; header and
// footer parts fill paragraphs and tables; note parts fill notes.
type partContent struct {
	paragraphs []Paragraph
	tables     []Table
	elements   []Element
	notes      []Note
	headerRefs []sectionRef
	footerRefs []sectionRef
}

// sectionRef is one w:headerReference or w:footerReference.
type sectionRef struct {
	relID string
	typ   HeaderFooterType
}

// contentParser is the streaming state machine shared by the document
// body, header/footer parts and note parts. One instance scans one part;
// all builder state is transient and discarded after the scan.
type contentParser struct {
	links map[string]string // rId -> hyperlink target for this part

	out partContent

	para *paragraphBuilder
	run  *runBuilder
	tbl  *tableBuilder
	note *Note

	hyperlink string // current w:hyperlink target, cleared at element end

	inPPr   bool
	inRPr   bool
	inNumPr bool
	inText  bool
	skip    int // >0 while inside an ignored subtree
	tblDeep int // w:tbl nesting depth; only depth 1 builds a table
}

type paragraphBuilder struct {
	runs  []Run
	style string
	numID *int
	level *int
}

type runBuilder struct {
	text      strings.Builder
	bold      bool
	italic    bool
	underline bool
	strike    bool
	link      string
}

type tableBuilder struct {
	rows    []TableRow
	curRow  []TableCell
	curCell *TableCell
}

// parseContent scans one XML part with a forward-only token loop.
func parseContent(data []byte, part string, links map[string]string) (*partContent, error) {
	p := &contentParser{links: links}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedXML, part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t)
		case xml.EndElement:
			p.endElement(t)
		case xml.CharData:
			p.charData(t)
		}
	}
	return &p.out, nil
}

func (p *contentParser) startElement(t xml.StartElement) {
	if p.skip > 0 {
		p.skip++
		return
	}
	if !inWordNS(t.Name) {
		// Foreign-namespace subtrees (drawings, charts, math, markup
		// compatibility wrappers) carry no body text.
		p.skip = 1
		return
	}

	switch t.Name.Local {
	case "p":
		p.para = &paragraphBuilder{}
	case "r":
		if p.para != nil {
			p.run = &runBuilder{link: p.hyperlink}
		}
	case "t":
		if p.run != nil {
			p.inText = true
		}
	case "tab":
		// w:tab inside pPr defines tab stops, not text.
		if p.run != nil && !p.inPPr {
			p.run.text.WriteString("\t")
		}
	case "br", "cr":
		if p.run != nil {
			p.run.text.WriteString("\n")
		}
	case "pPr":
		p.inPPr = true
	case "rPr":
		p.inRPr = true
	case "numPr":
		if p.inPPr {
			p.inNumPr = true
		}
	case "pStyle":
		if p.inPPr && p.para != nil {
			p.para.style = attrVal(t, "val")
		}
	case "ilvl":
		if p.inNumPr && p.para != nil {
			if n, err := strconv.Atoi(attrVal(t, "val")); err == nil {
				p.para.level = &n
			}
		}
	case "numId":
		// numId 0 means "no numbering" and is treated as absent.
		if p.inNumPr && p.para != nil {
			if n, err := strconv.Atoi(attrVal(t, "val")); err == nil && n > 0 {
				p.para.numID = &n
			}
		}
	case "b":
		if p.run != nil && p.inRPr {
			p.run.bold = onOff(t)
		}
	case "i":
		if p.run != nil && p.inRPr {
			p.run.italic = onOff(t)
		}
	case "u":
		if p.run != nil && p.inRPr {
			p.run.underline = onOff(t)
		}
	case "strike", "dstrike":
		if p.run != nil && p.inRPr {
			p.run.strike = onOff(t)
		}
	case "hyperlink":
		// A nested hyperlink overwrites the current target.
		p.hyperlink = p.links[attrVal(t, "id")]
	case "tbl":
		p.tblDeep++
		if p.tblDeep == 1 {
			p.tbl = &tableBuilder{}
		}
	case "tr":
		if p.tblDeep == 1 && p.tbl != nil {
			p.tbl.curRow = nil
		}
	case "tc":
		if p.tblDeep == 1 && p.tbl != nil {
			p.tbl.curCell = &TableCell{}
		}
	case "headerReference":
		p.out.headerRefs = append(p.out.headerRefs, sectionRef{
			relID: attrVal(t, "id"),
			typ:   headerFooterTypeFor(attrVal(t, "type")),
		})
	case "footerReference":
		p.out.footerRefs = append(p.out.footerRefs, sectionRef{
			relID: attrVal(t, "id"),
			typ:   headerFooterTypeFor(attrVal(t, "type")),
		})
	case "footnote":
		p.note = &Note{ID: attrVal(t, "id"), Type: NoteFootnote}
	case "endnote":
		p.note = &Note{ID: attrVal(t, "id"), Type: NoteEndnote}
	case "drawing", "pict", "object", "rPrChange", "pPrChange":
		p.skip = 1
	}
}

func (p *contentParser) endElement(t xml.EndElement) {
	if p.skip > 0 {
		p.skip--
		return
	}

	switch t.Name.Local {
	case "p":
		p.finishParagraph()
	case "r":
		p.finishRun()
	case "t":
		p.inText = false
	case "pPr":
		p.inPPr = false
	case "rPr":
		p.inRPr = false
	case "numPr":
		p.inNumPr = false
	case "hyperlink":
		p.hyperlink = ""
	case "tc":
		if p.tblDeep == 1 && p.tbl != nil && p.tbl.curCell != nil {
			p.tbl.curRow = append(p.tbl.curRow, *p.tbl.curCell)
			p.tbl.curCell = nil
		}
	case "tr":
		if p.tblDeep == 1 && p.tbl != nil {
			p.tbl.rows = append(p.tbl.rows, TableRow{Cells: p.tbl.curRow})
			p.tbl.curRow = nil
		}
	case "tbl":
		if p.tblDeep == 1 {
			p.finishTable()
		}
		if p.tblDeep > 0 {
			p.tblDeep--
		}
	case "footnote", "endnote":
		if p.note != nil {
			p.out.notes = append(p.out.notes, *p.note)
			p.note = nil
		}
	}
}

func (p *contentParser) charData(t xml.CharData) {
	if p.skip == 0 && p.inText && p.run != nil {
		p.run.text.Write(t)
	}
}

// finishParagraph routes the completed paragraph into the active table
// cell, the open note, or the part's top level.
func (p *contentParser) finishParagraph() {
	if p.para == nil {
		return
	}
	para := Paragraph{Runs: p.para.runs, Style: p.para.style}
	if p.para.numID != nil {
		level := 0
		if p.para.level != nil {
			level = *p.para.level
		}
		para.NumID = p.para.numID
		para.Level = &level
	}
	p.para = nil

	switch {
	case p.tbl != nil && p.tbl.curCell != nil:
		p.tbl.curCell.Paragraphs = append(p.tbl.curCell.Paragraphs, para)
	case p.note != nil:
		p.note.Paragraphs = append(p.note.Paragraphs, para)
	default:
		p.out.paragraphs = append(p.out.paragraphs, para)
		p.out.elements = append(p.out.elements, Element{
			Kind:  ElementParagraph,
			Index: len(p.out.paragraphs) - 1,
		})
	}
}

// finishRun appends the completed run to the open paragraph. Runs that
// accumulated no text are dropped.
func (p *contentParser) finishRun() {
	if p.run == nil {
		return
	}
	if p.para != nil && p.run.text.Len() > 0 {
		p.para.runs = append(p.para.runs, Run{
			Text:          p.run.text.String(),
			Bold:          p.run.bold,
			Italic:        p.run.italic,
			Underline:     p.run.underline,
			Strikethrough: p.run.strike,
			HyperlinkURL:  p.run.link,
		})
	}
	p.run = nil
}

func (p *contentParser) finishTable() {
	t := Table{Rows: p.tbl.rows}
	p.tbl = nil
	p.out.tables = append(p.out.tables, t)
	p.out.elements = append(p.out.elements, Element{
		Kind:  ElementTable,
		Index: len(p.out.tables) - 1,
	})
}

func inWordNS(n xml.Name) bool {
	return n.Space == nsWordML || n.Space == ""
}

func attrVal(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// onOff reads a WordprocessingML toggle attribute: presence without
// w:val enables, and only the exact values "false", "0" and "none"
// disable.
func onOff(t xml.StartElement) bool {
	switch attrVal(t, "val") {
	case "false", "0", "none":
		return false
	default:
		return true
	}
}

func headerFooterTypeFor(v string) HeaderFooterType {
	switch v {
	case "first":
		return HeaderFooterFirst
	case "even":
		return HeaderFooterEven
	case "odd":
		return HeaderFooterOdd
	default:
		return HeaderFooterDefault
	}
}
