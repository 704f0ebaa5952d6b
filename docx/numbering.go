package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strconv"
)

// numberingXML represents word/numbering.xml. Only the pieces needed to
// classify list levels are mapped.
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	ID     string        `xml:"abstractNumId,attr"`
	Levels []numLevelXML `xml:"lvl"`
}

type numLevelXML struct {
	Level  string    `xml:"ilvl,attr"`
	Format numFmtXML `xml:"numFmt"`
}

type numFmtXML struct {
	Val string `xml:"val,attr"`
}

type numXML struct {
	ID       string         `xml:"numId,attr"`
	Abstract abstractRefXML `xml:"abstractNumId"`
}

type abstractRefXML struct {
	Val string `xml:"val,attr"`
}

// parseNumbering resolves word/numbering.xml into the final
// (numId, level) -> ListType map. Resolution is two-phase because a
// w:num may precede or follow the w:abstractNum it references: first
// collect every abstract definition's level formats, then chain each
// concrete numId through its abstract reference.
func parseNumbering(parts map[string]*zip.File) (map[NumberingKey]ListType, error) {
	defs := make(map[NumberingKey]ListType)

	f := parts[partNumbering]
	if f == nil {
		return defs, nil
	}

	data, err := readPart(f)
	if err != nil {
		return nil, err
	}

	var parsed numberingXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedXML, partNumbering, err)
	}

	abstract := make(map[string]map[int]ListType, len(parsed.AbstractNums))
	for _, a := range parsed.AbstractNums {
		levels := make(map[int]ListType, len(a.Levels))
		for _, l := range a.Levels {
			level, err := strconv.Atoi(l.Level)
			if err != nil {
				continue
			}
			levels[level] = listTypeForFormat(l.Format.Val)
		}
		abstract[a.ID] = levels
	}

	for _, n := range parsed.Nums {
		numID, err := strconv.Atoi(n.ID)
		if err != nil {
			continue
		}
		for level, t := range abstract[n.Abstract.Val] {
			defs[NumberingKey{NumID: numID, Level: level}] = t
		}
	}
	return defs, nil
}

// listTypeForFormat classifies a w:numFmt value. The six ordinal formats
// count as numbered; everything else, including "bullet" and the absent
// case, is a bullet.
func listTypeForFormat(format string) ListType {
	switch format {
	case "decimal", "decimalZero", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman":
		return ListNumbered
	default:
		return ListBullet
	}
}
