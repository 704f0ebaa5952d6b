package chunker

import "fmt"

// PageBoundary marks one logical page as a half-open byte range of the
// extracted text. Page numbers are 1-indexed. Boundary lists must be
// sorted ascending by CharStart and non-overlapping; gaps between
// consecutive boundaries are permitted.
type PageBoundary struct {
	CharStart int `json:"char_start"`
	CharEnd   int `json:"char_end"`
	Page      int `json:"page_number"`
}

// ValidateBoundaries checks the page boundary invariants: every range
// non-empty, ascending start order, no overlap. It reports the first
// violation found and accepts an empty list.
func ValidateBoundaries(pages []PageBoundary) error {
	for i, b := range pages {
		if b.CharStart >= b.CharEnd {
			return fmt.Errorf("%w: boundary %d has range [%d,%d)", ErrBoundaryRange, i, b.CharStart, b.CharEnd)
		}
		if i == 0 {
			continue
		}
		prev := pages[i-1]
		if b.CharStart < prev.CharStart {
			return fmt.Errorf("%w: boundary %d starts at %d after boundary %d at %d", ErrUnsortedBoundaries, i, b.CharStart, i-1, prev.CharStart)
		}
		if b.CharStart < prev.CharEnd {
			return fmt.Errorf("%w: boundary %d starts at %d inside boundary %d ending at %d", ErrOverlappingBoundaries, i, b.CharStart, i-1, prev.CharEnd)
		}
	}
	return nil
}
