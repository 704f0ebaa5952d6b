package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
)

// relTypeHyperlink is the relationship type of external hyperlink targets.
const relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

// relationships is the resolved relationship set of one content part.
// hyperlinks is the subset runs resolve against; targets keeps every
// relationship for part discovery (headers, footers).
type relationships struct {
	hyperlinks map[string]string
	targets    map[string]string
}

// relationshipsXML represents the .rels XML structure.
type relationshipsXML struct {
	XMLName xml.Name          `xml:"Relationships"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// relsPartFor returns the conventional rels part name for a content
// part: word/document.xml -> word/_rels/document.xml.rels.
func relsPartFor(part string) string {
	return path.Dir(part) + "/_rels/" + path.Base(part) + ".rels"
}

// parseRelsFor reads and resolves the rels part of the named content
// part. A missing rels part yields empty maps, not an error.
func parseRelsFor(parts map[string]*zip.File, part string) (relationships, error) {
	rels := relationships{
		hyperlinks: make(map[string]string),
		targets:    make(map[string]string),
	}

	name := relsPartFor(part)
	f := parts[name]
	if f == nil {
		return rels, nil
	}

	data, err := readPart(f)
	if err != nil {
		return rels, err
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return rels, fmt.Errorf("%w: %s: %v", ErrMalformedXML, name, err)
	}

	for _, rel := range parsed.Rels {
		rels.targets[rel.ID] = rel.Target
		if rel.Type == relTypeHyperlink {
			rels.hyperlinks[rel.ID] = rel.Target
		}
	}
	return rels, nil
}
