package docsift

import (
	"errors"

	"github.com/docsift/docsift/extract"
)

var (
	// ErrUnsupportedFormat is returned for unrecognized document formats.
	// It is the extract package sentinel re-exported so callers can match
	// it without importing extract.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("docsift: invalid configuration")

	// ErrEmptyInput is returned when a document buffer holds no bytes.
	ErrEmptyInput = errors.New("docsift: empty input")
)
