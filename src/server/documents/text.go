package documents

import (
	"fmt"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// Text is an immutable document snapshot with a line index. Offsets are
// byte offsets into the content; LSP characters are UTF-16 code units.
type Text struct {
	content    string
	lineStarts []int
}

// NewText indexes content. \n, \r\n and \r all end a line.
func NewText(content string) *Text {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &Text{content: content, lineStarts: starts}
}

func (t *Text) String() string { return t.content }

// Len returns the content length in bytes
func (t *Text) Len() int { return len(t.content) }

// LineCount returns the number of lines; an empty text has one line
func (t *Text) LineCount() int { return len(t.lineStarts) }

// lineBounds returns the byte range of line without its terminator
func (t *Text) lineBounds(line int) (int, int) {
	start := t.lineStarts[line]
	end := len(t.content)
	if line+1 < len(t.lineStarts) {
		end = t.lineStarts[line+1]
	}
	for end > start && (t.content[end-1] == '\n' || t.content[end-1] == '\r') {
		end--
	}
	return start, end
}

// LineText returns line without its terminator, or "" when out of range
func (t *Text) LineText(line int) string {
	if line < 0 || line >= len(t.lineStarts) {
		return ""
	}
	start, end := t.lineBounds(line)
	return t.content[start:end]
}

// PositionAt converts a byte offset to an LSP position. Offsets outside the
// text are clamped to it.
func (t *Text) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.content) {
		offset = len(t.content)
	}

	// Last line whose start is <= offset
	lo, hi := 0, len(t.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	start, end := t.lineBounds(lo)
	if offset > end {
		offset = end
	}
	var units uint32
	for _, r := range t.content[start:offset] {
		units += utf16Len(r)
	}
	return protocol.Position{Line: uint32(lo), Character: units}
}

// OffsetAt converts an LSP position to a byte offset. Positions outside the
// text are an error.
func (t *Text) OffsetAt(pos protocol.Position) (int, error) {
	offset, clamped := t.clampedOffset(pos)
	if clamped {
		return 0, fmt.Errorf("position %d:%d is outside the document", pos.Line, pos.Character)
	}
	return offset, nil
}

// clampedOffset converts pos, clamping a line past the end to the end of the
// text and a character past the end of its line to the end of that line.
func (t *Text) clampedOffset(pos protocol.Position) (int, bool) {
	if int(pos.Line) >= len(t.lineStarts) {
		return len(t.content), true
	}
	start, end := t.lineBounds(int(pos.Line))

	var units uint32
	for i, r := range t.content[start:end] {
		if units >= pos.Character {
			return start + i, false
		}
		units += utf16Len(r)
		if units > pos.Character {
			// Inside a surrogate pair: snap to the rune start
			return start + i, false
		}
	}
	if units == pos.Character {
		return end, false
	}
	return end, true
}

// ToRange converts an LSP range to byte offsets. Stale ranges are clamped to
// the text and inverted ranges collapse to their start; the second result
// reports whether any of that happened.
func (t *Text) ToRange(r protocol.Range) (TextRange, bool) {
	start, startClamped := t.clampedOffset(r.Start)
	end, endClamped := t.clampedOffset(r.End)
	inverted := end < start
	if inverted {
		end = start
	}
	return TextRange{Start: start, End: end}, startClamped || endClamped || inverted
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
