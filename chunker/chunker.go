// Package chunker splits extracted text into bounded, optionally
// overlapping chunks while preserving traceability to source offsets
// and page ranges.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidOverlap reports an overlap that is negative or not
	// smaller than the chunk size cap.
	ErrInvalidOverlap = errors.New("chunker: invalid overlap")
	// ErrBoundaryRange reports a page boundary whose range is empty or
	// reversed.
	ErrBoundaryRange = errors.New("chunker: invalid page boundary range")
	// ErrUnsortedBoundaries reports page boundaries out of ascending
	// order.
	ErrUnsortedBoundaries = errors.New("chunker: unsorted page boundaries")
	// ErrOverlappingBoundaries reports page boundaries that overlap.
	ErrOverlappingBoundaries = errors.New("chunker: overlapping page boundaries")
)

// SplitterKind selects the splitting strategy.
type SplitterKind int

const (
	// SplitText splits on whitespace and punctuation boundaries.
	SplitText SplitterKind = iota
	// SplitMarkdown splits on markdown block boundaries, keeping
	// headings, lists, code fences and tables intact where the size cap
	// allows.
	SplitMarkdown
)

// String returns a human-readable name for the splitter kind.
func (k SplitterKind) String() string {
	switch k {
	case SplitMarkdown:
		return "markdown"
	default:
		return "text"
	}
}

// Config controls the chunking behaviour. All sizes and offsets count
// bytes of UTF-8 text; split points always fall on rune boundaries.
type Config struct {
	MaxCharacters int          `json:"max_characters" yaml:"max_characters"` // hard cap per chunk
	Overlap       int          `json:"overlap" yaml:"overlap"`               // trailing context repeated at the next chunk's start
	Trim          bool         `json:"trim" yaml:"trim"`                     // strip chunk-edge whitespace
	Splitter      SplitterKind `json:"chunker_type" yaml:"chunker_type"`
}

// DefaultConfig returns the library default chunking configuration.
func DefaultConfig() Config {
	return Config{
		MaxCharacters: 1000,
		Overlap:       100,
		Trim:          true,
		Splitter:      SplitText,
	}
}

// Metadata locates one chunk within its source text. CharStart/CharEnd
// are absolute byte offsets, half-open, so CharEnd-CharStart always
// equals len(Content). FirstPage/LastPage are nil when no page
// boundaries were supplied or none intersect the chunk.
type Metadata struct {
	CharStart   int  `json:"char_start"`
	CharEnd     int  `json:"char_end"`
	ChunkIndex  int  `json:"chunk_index"`
	TotalChunks int  `json:"total_chunks"`
	FirstPage   *int `json:"first_page,omitempty"`
	LastPage    *int `json:"last_page,omitempty"`
}

// Chunk is one bounded slice of the source text.
type Chunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Result is the outcome of one chunking call.
type Result struct {
	Chunks     []Chunk `json:"chunks"`
	ChunkCount int     `json:"chunk_count"`
}

// Engine splits text according to one fixed configuration. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New returns an Engine with the given configuration. A zero
// MaxCharacters is replaced with the library default; Overlap is kept
// as given since zero is meaningful.
func New(cfg Config) *Engine {
	if cfg.MaxCharacters <= 0 {
		cfg.MaxCharacters = DefaultConfig().MaxCharacters
	}
	return &Engine{cfg: cfg}
}

// Chunk splits text into bounded chunks with absolute offsets and
// optional page attribution.
//
// Validation is fail-fast: a misconfigured overlap or an invalid page
// boundary list aborts the call before any splitting work, and no
// partial result is ever returned. Empty input yields zero chunks.
func (e *Engine) Chunk(text string, pages []PageBoundary) (*Result, error) {
	if e.cfg.Overlap < 0 || e.cfg.Overlap >= e.cfg.MaxCharacters {
		return nil, fmt.Errorf("%w: overlap %d with max_characters %d", ErrInvalidOverlap, e.cfg.Overlap, e.cfg.MaxCharacters)
	}
	if err := ValidateBoundaries(pages); err != nil {
		return nil, err
	}
	if text == "" {
		return &Result{Chunks: []Chunk{}}, nil
	}

	var spans []span
	switch e.cfg.Splitter {
	case SplitMarkdown:
		spans = markdownSpans(text, e.cfg.MaxCharacters, e.cfg.Overlap)
	default:
		spans = textSpans(text, e.cfg.MaxCharacters, e.cfg.Overlap)
	}

	chunks := make([]Chunk, 0, len(spans))
	for _, s := range spans {
		if e.cfg.Trim {
			s = trimSpan(text, s)
		}
		if s.start >= s.end {
			continue
		}
		first, last := pageRange(pages, s)
		chunks = append(chunks, Chunk{
			Content: text[s.start:s.end],
			Metadata: Metadata{
				CharStart: s.start,
				CharEnd:   s.end,
				FirstPage: first,
				LastPage:  last,
			},
		})
	}
	for i := range chunks {
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.TotalChunks = len(chunks)
	}
	return &Result{Chunks: chunks, ChunkCount: len(chunks)}, nil
}

// trimSpan moves the span edges inward past whitespace so that the
// recorded offsets keep matching the trimmed content exactly.
func trimSpan(text string, s span) span {
	content := text[s.start:s.end]
	lead := len(content) - len(strings.TrimLeftFunc(content, unicode.IsSpace))
	trail := len(content) - len(strings.TrimRightFunc(content, unicode.IsSpace))
	if lead+trail >= len(content) {
		return span{start: s.start, end: s.start}
	}
	return span{start: s.start + lead, end: s.end - trail}
}

// pageRange attributes a chunk span to pages by strict half-open
// interval intersection against validated boundaries. The first
// intersecting boundary gives the first page, the last gives the last.
func pageRange(pages []PageBoundary, s span) (first, last *int) {
	for i := range pages {
		b := pages[i]
		if s.start < b.CharEnd && s.end > b.CharStart {
			if first == nil {
				f := b.Page
				first = &f
			}
			l := b.Page
			last = &l
		}
	}
	return first, last
}
