package extract

import (
	"context"
	"fmt"
)

// LegacyExtractor rejects pre-OOXML binary formats with a pointer to the
// supported equivalent.
type LegacyExtractor struct{}

func (e *LegacyExtractor) Formats() []string { return []string{"doc", "xls", "ppt"} }

func (e *LegacyExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	return nil, fmt.Errorf("%w: legacy binary format, convert to docx/xlsx/pptx first", ErrUnsupportedFormat)
}
