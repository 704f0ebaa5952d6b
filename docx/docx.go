package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
)

var (
	// ErrMalformedArchive reports a buffer that is not a readable zip.
	ErrMalformedArchive = errors.New("docx: malformed zip archive")
	// ErrPartNotFound reports a missing required package part.
	ErrPartNotFound = errors.New("docx: required part not found")
	// ErrMalformedXML reports a token-level XML failure in a parsed part.
	ErrMalformedXML = errors.New("docx: malformed xml")
)

const (
	partDocument  = "word/document.xml"
	partNumbering = "word/numbering.xml"
	partFootnotes = "word/footnotes.xml"
	partEndnotes  = "word/endnotes.xml"
	partCoreProps = "docProps/core.xml"
)

// Parse reads a DOCX byte buffer into a Document.
//
// word/document.xml must be present. Relationship, numbering, header,
// footer and note parts are optional; absence yields empty collections.
// Every failure is terminal: no partial Document is returned alongside
// an error.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	// Part index for name lookup.
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	if parts[partDocument] == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, partDocument)
	}

	rels, err := parseRelsFor(parts, partDocument)
	if err != nil {
		return nil, err
	}

	numbering, err := parseNumbering(parts)
	if err != nil {
		return nil, err
	}

	docXML, err := readPart(parts[partDocument])
	if err != nil {
		return nil, err
	}

	body, err := parseContent(docXML, partDocument, rels.hyperlinks)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Paragraphs: body.paragraphs,
		Tables:     body.tables,
		Elements:   body.elements,
		Numbering:  numbering,
		Properties: parseProperties(parts),
	}

	doc.Headers, err = parseHeaderFooterParts(parts, rels, body.headerRefs, "header")
	if err != nil {
		return nil, err
	}
	doc.Footers, err = parseHeaderFooterParts(parts, rels, body.footerRefs, "footer")
	if err != nil {
		return nil, err
	}

	doc.Footnotes, err = parseNotes(parts, partFootnotes)
	if err != nil {
		return nil, err
	}
	doc.Endnotes, err = parseNotes(parts, partEndnotes)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// readPart reads one named part from the archive.
func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

// parseHeaderFooterParts assembles the header or footer parts of the
// package: parts referenced from the body sectPr carry their referenced
// type, remaining parts in the archive parse as Default in part-number
// order.
func parseHeaderFooterParts(parts map[string]*zip.File, rels relationships, refs []sectionRef, kind string) ([]HeaderFooter, error) {
	var result []HeaderFooter
	seen := make(map[string]bool)

	for _, ref := range refs {
		target := rels.targets[ref.relID]
		if target == "" {
			slog.Debug("docx: unresolved section reference", "rId", ref.relID, "kind", kind)
			continue
		}
		name := resolvePartPath(target)
		if seen[name] {
			continue
		}
		f := parts[name]
		if f == nil {
			slog.Debug("docx: referenced part not in archive", "part", name)
			continue
		}
		hf, err := parseHeaderFooter(parts, f, ref.typ)
		if err != nil {
			return nil, err
		}
		result = append(result, hf)
		seen[name] = true
	}

	var rest []string
	prefix := "word/" + kind
	for name := range parts {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".xml") && !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return partNumber(rest[i], kind) < partNumber(rest[j], kind)
	})
	for _, name := range rest {
		hf, err := parseHeaderFooter(parts, parts[name], HeaderFooterDefault)
		if err != nil {
			return nil, err
		}
		result = append(result, hf)
	}

	return result, nil
}

func parseHeaderFooter(parts map[string]*zip.File, f *zip.File, typ HeaderFooterType) (HeaderFooter, error) {
	data, err := readPart(f)
	if err != nil {
		return HeaderFooter{}, err
	}
	rels, err := parseRelsFor(parts, f.Name)
	if err != nil {
		return HeaderFooter{}, err
	}
	content, err := parseContent(data, f.Name, rels.hyperlinks)
	if err != nil {
		return HeaderFooter{}, err
	}
	return HeaderFooter{
		Type:       typ,
		Paragraphs: content.paragraphs,
		Tables:     content.tables,
	}, nil
}

// parseNotes reads word/footnotes.xml or word/endnotes.xml. Separator
// placeholders (ids "-1" and "0") are silently dropped.
func parseNotes(parts map[string]*zip.File, part string) ([]Note, error) {
	f := parts[part]
	if f == nil {
		return nil, nil
	}

	data, err := readPart(f)
	if err != nil {
		return nil, err
	}
	rels, err := parseRelsFor(parts, part)
	if err != nil {
		return nil, err
	}
	content, err := parseContent(data, part, rels.hyperlinks)
	if err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(content.notes))
	for _, n := range content.notes {
		if n.ID == "-1" || n.ID == "0" {
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// resolvePartPath turns a relationship target into an archive part name.
// Targets are usually relative to word/; absolute targets start with a
// slash.
func resolvePartPath(target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean("word/" + target)
}

func partNumber(name, kind string) int {
	// Extract number from "word/header2.xml"
	name = strings.TrimPrefix(name, "word/"+kind)
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
