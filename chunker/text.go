package chunker

import (
	"unicode"
	"unicode/utf8"
)

// span is a half-open byte range of the source text.
type span struct {
	start int
	end   int
}

// textSpans walks the text producing chunk spans of at most maxChars
// bytes. Every span except the last hands back min(overlap, length)
// bytes to the start of the next one; the last span never yields
// overlap.
func textSpans(text string, maxChars, overlap int) []span {
	var spans []span
	start := 0
	for start < len(text) {
		if len(text)-start <= maxChars {
			spans = append(spans, span{start: start, end: len(text)})
			break
		}
		end := splitPoint(text, start, maxChars, overlap)
		spans = append(spans, span{start: start, end: end})
		start = nextStart(text, start, end, overlap)
	}
	return spans
}

// splitPoint picks the end of a chunk starting at start: the last
// whitespace or punctuation boundary inside the cap but past the
// overlap window, so the walk keeps advancing. Without such a boundary
// the chunk is cut at the cap, aligned down to a rune start.
func splitPoint(text string, start, maxChars, overlap int) int {
	limit := start + maxChars // caller guarantees limit < len(text)
	floor := start + overlap

	for p := limit; p > floor; p-- {
		if !utf8.RuneStart(text[p]) {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(text[:p])
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return p
		}
	}

	p := limit
	for p > start+1 && !utf8.RuneStart(text[p]) {
		p--
	}
	return p
}

// nextStart applies the running-offset rule: the next chunk begins
// min(overlap, chunkLength) bytes before this chunk's end, nudged
// forward to a rune boundary. A chunk no longer than the overlap
// yields none back so the walk always advances.
func nextStart(text string, start, end, overlap int) int {
	back := overlap
	if length := end - start; length < back {
		back = length
	}
	next := end - back
	for next < end && !utf8.RuneStart(text[next]) {
		next++
	}
	if next <= start {
		return end
	}
	return next
}
