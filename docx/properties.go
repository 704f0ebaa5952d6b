package docx

import (
	"archive/zip"
	"encoding/xml"
)

// corePropertiesXML represents the Dublin Core metadata in
// docProps/core.xml, shared by DOCX, PPTX and other OOXML formats.
type corePropertiesXML struct {
	Title          string `xml:"title"`
	Creator        string `xml:"creator"`
	Subject        string `xml:"subject"`
	Description    string `xml:"description"`
	Keywords       string `xml:"keywords"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
	LastModifiedBy string `xml:"lastModifiedBy"`
}

// parseProperties reads docProps/core.xml. Metadata is best-effort: a
// missing or unreadable part yields zero-value Properties rather than
// failing the parse.
func parseProperties(parts map[string]*zip.File) Properties {
	f := parts[partCoreProps]
	if f == nil {
		return Properties{}
	}

	data, err := readPart(f)
	if err != nil {
		return Properties{}
	}

	var props corePropertiesXML
	if err := xml.Unmarshal(data, &props); err != nil {
		return Properties{}
	}

	return Properties{
		Title:          props.Title,
		Creator:        props.Creator,
		Subject:        props.Subject,
		Description:    props.Description,
		Keywords:       props.Keywords,
		Created:        props.Created,
		Modified:       props.Modified,
		LastModifiedBy: props.LastModifiedBy,
	}
}
