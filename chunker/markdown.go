package chunker

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownSpans walks the source producing chunk spans that end on
// top-level markdown block boundaries wherever the size cap allows, so
// headings, lists, code fences and tables stay intact. A block larger
// than the cap falls back to plain text splitting inside its range.
// Overlap arithmetic matches textSpans.
func markdownSpans(src string, maxChars, overlap int) []span {
	bounds := blockBounds(src)

	var spans []span
	start := 0
	for start < len(src) {
		if len(src)-start <= maxChars {
			spans = append(spans, span{start: start, end: len(src)})
			break
		}
		end := -1
		for _, b := range bounds {
			// Bounds inside the overlap window would let the walk re-cut
			// content the previous chunk already carried.
			if b <= start+overlap {
				continue
			}
			if b-start > maxChars {
				break
			}
			end = b
		}
		if end < 0 {
			end = splitPoint(src, start, maxChars, overlap)
		}
		spans = append(spans, span{start: start, end: end})
		start = nextStart(src, start, end, overlap)
	}
	return spans
}

// blockBounds returns the ascending byte offsets where a new top-level
// block begins, each a safe place to end a chunk, terminated by
// len(src).
func blockBounds(src string) []int {
	source := []byte(src)
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var bounds []int
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if s := nodeStart(source, node); s > 0 {
			bounds = append(bounds, s)
		}
	}
	return append(bounds, len(src))
}

// nodeStart locates the source offset where a block begins. Goldmark
// segments exclude leading markers, so positions are pulled back to
// their line start, and fenced code blocks one line further to include
// the opening fence. Returns -1 when the node carries no locatable
// source.
func nodeStart(source []byte, n ast.Node) int {
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		if fenced.Lines().Len() > 0 {
			ls := lineStart(source, fenced.Lines().At(0).Start)
			if ls == 0 {
				return 0
			}
			return lineStart(source, ls-1)
		}
		if fenced.Info != nil {
			return lineStart(source, fenced.Info.Segment.Start)
		}
		return -1
	}
	if t, ok := n.(*ast.Text); ok {
		return lineStart(source, t.Segment.Start)
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			return lineStart(source, lines.At(0).Start)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := nodeStart(source, c); s >= 0 {
			return s
		}
	}
	return -1
}

func lineStart(source []byte, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}
