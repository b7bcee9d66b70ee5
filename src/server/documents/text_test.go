package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func rng(sl, sc, el, ec uint32) protocol.Range {
	return protocol.Range{Start: pos(sl, sc), End: pos(el, ec)}
}

func TestTextLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   int
	}{
		{"empty", "", 1},
		{"no newline", "abc", 1},
		{"trailing newline", "abc\n", 2},
		{"crlf", "a\r\nb\r\nc", 3},
		{"lone cr", "a\rb", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lines, NewText(tt.content).LineCount())
		})
	}
}

func TestLineText(t *testing.T) {
	text := NewText("first\r\n  second\nthird")
	assert.Equal(t, "first", text.LineText(0))
	assert.Equal(t, "  second", text.LineText(1))
	assert.Equal(t, "third", text.LineText(2))
	assert.Equal(t, "", text.LineText(3))
	assert.Equal(t, "", text.LineText(-1))
}

func TestOffsetAtAndPositionAt(t *testing.T) {
	text := NewText("package a\r\n\nfunc Foo() {}\n")

	offset, err := text.OffsetAt(pos(2, 5))
	require.NoError(t, err)
	assert.Equal(t, "Foo() {}\n", text.String()[offset:])
	assert.Equal(t, pos(2, 5), text.PositionAt(offset))

	// End of line is addressable; the terminator is not
	offset, err = text.OffsetAt(pos(0, 9))
	require.NoError(t, err)
	assert.Equal(t, 9, offset)
	assert.Equal(t, pos(0, 9), text.PositionAt(10), "offset inside CRLF maps to end of line")

	_, err = text.OffsetAt(pos(0, 10))
	assert.Error(t, err)
	_, err = text.OffsetAt(pos(9, 0))
	assert.Error(t, err)

	assert.Equal(t, pos(0, 0), text.PositionAt(-4))
	assert.Equal(t, pos(3, 0), text.PositionAt(1000))
}

func TestUTF16Characters(t *testing.T) {
	// "é" is one UTF-16 unit in two bytes, "😀" two units in four bytes
	text := NewText("é😀x")

	offset, err := text.OffsetAt(pos(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, offset)

	offset, err = text.OffsetAt(pos(0, 3))
	require.NoError(t, err)
	assert.Equal(t, 6, offset)
	assert.Equal(t, "x", text.String()[offset:])

	// Inside the surrogate pair snaps to the rune start
	offset, err = text.OffsetAt(pos(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, offset)

	assert.Equal(t, pos(0, 3), text.PositionAt(6))
}

func TestToRangeClamping(t *testing.T) {
	text := NewText("abc\nde\n")

	tests := []struct {
		name        string
		r           protocol.Range
		want        TextRange
		wantClamped bool
	}{
		{"exact", rng(1, 0, 1, 2), TextRange{4, 6}, false},
		{"empty range", rng(0, 1, 0, 1), TextRange{1, 1}, false},
		{"char past end of line", rng(1, 1, 1, 40), TextRange{5, 6}, true},
		{"line past end of text", rng(1, 0, 20, 0), TextRange{4, 7}, true},
		{"both past end", rng(30, 2, 31, 0), TextRange{7, 7}, true},
		{"inverted collapses to start", rng(1, 2, 0, 1), TextRange{6, 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := text.ToRange(tt.r)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}
