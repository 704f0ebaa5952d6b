package extract

import (
	"context"

	"github.com/docsift/docsift/docx"
)

// DOCXExtractor extracts WordprocessingML documents through the docx package.
type DOCXExtractor struct{}

func (e *DOCXExtractor) Formats() []string { return []string{"docx"} }

func (e *DOCXExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	doc, err := docx.Parse(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:     doc.Text(),
		Markdown: doc.Markdown(),
		Metadata: docxMetadata(doc),
	}, nil
}

func docxMetadata(doc *docx.Document) map[string]string {
	meta := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	set("title", doc.Properties.Title)
	set("author", doc.Properties.Creator)
	set("subject", doc.Properties.Subject)
	set("description", doc.Properties.Description)
	set("keywords", doc.Properties.Keywords)
	set("created", doc.Properties.Created)
	set("modified", doc.Properties.Modified)
	set("last_modified_by", doc.Properties.LastModifiedBy)
	if len(meta) == 0 {
		return nil
	}
	return meta
}
