package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphRun(text string, x, top, width float64) []Glyph {
	glyphs := make([]Glyph, 0, len(text))
	for i, r := range text {
		x0 := x + float64(i)*width
		glyphs = append(glyphs, Glyph{Text: string(r), Box: Box{X0: x0, Top: top, X1: x0 + width, Bottom: top + 10}})
	}
	return glyphs
}

func TestGroupWords_KeepsBlanksAndSplitsOnGaps(t *testing.T) {
	glyphs := append(glyphRun("a) Foo", 10, 100, 5), glyphRun("tail", 100, 101, 5)...)

	words := GroupWords(glyphs, DefaultWordGap)

	require.Len(t, words, 2)
	assert.Equal(t, "a) Foo", words[0].Text)
	assert.Equal(t, "tail", words[1].Text)
	assert.Equal(t, Box{X0: 10, Top: 100, X1: 40, Bottom: 110}, words[0].Box)
}

func TestGroupWords_OrdersRowsTopToBottom(t *testing.T) {
	glyphs := append(glyphRun("second", 10, 140, 5), glyphRun("first", 10, 100, 5)...)

	words := GroupWords(glyphs, DefaultWordGap)

	require.Len(t, words, 2)
	assert.Equal(t, "first", words[0].Text)
	assert.Equal(t, "second", words[1].Text)
}

func TestGroupWords_DropsBlankOnlyWords(t *testing.T) {
	glyphs := append(glyphRun("   ", 10, 100, 5), glyphRun("x", 200, 100, 5)...)

	words := GroupWords(glyphs, DefaultWordGap)

	require.Len(t, words, 1)
	assert.Equal(t, "x", words[0].Text)
}

func TestBuildLines(t *testing.T) {
	words := []Word{
		{Text: "1.", Box: Box{X0: 10, Top: 100, X1: 20, Bottom: 110}},
		{Text: "What", Box: Box{X0: 25, Top: 102, X1: 50, Bottom: 112}},
		{Text: "a)", Box: Box{X0: 10, Top: 120, X1: 20, Bottom: 130}},
		{Text: "Foo", Box: Box{X0: 25, Top: 120, X1: 45, Bottom: 130}},
	}

	lines := BuildLines(words, DefaultLineTolerance)

	require.Len(t, lines, 2)
	assert.Equal(t, "1. What", lines[0].Text)
	assert.Equal(t, Box{X0: 10, Top: 100, X1: 50, Bottom: 112}, lines[0].Box)
	assert.Equal(t, "a) Foo", lines[1].Text)
	assert.Len(t, lines[1].Words, 2)
}

func TestBuildLines_ComparesWithPreviousWord(t *testing.T) {
	// Each step is under the tolerance even though the drift is not.
	words := []Word{
		{Text: "a", Box: Box{Top: 100, Bottom: 110}},
		{Text: "b", Box: Box{Top: 104, Bottom: 114}},
		{Text: "c", Box: Box{Top: 108, Bottom: 118}},
	}

	lines := BuildLines(words, DefaultLineTolerance)

	require.Len(t, lines, 1)
	assert.Equal(t, "a b c", lines[0].Text)
}

func TestBuildLines_EmptyPage(t *testing.T) {
	assert.Empty(t, BuildLines(nil, DefaultLineTolerance))
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X0: 0, Top: 0, X1: 10, Bottom: 10}

	assert.True(t, a.Intersects(Box{X0: 5, Top: 5, X1: 15, Bottom: 15}))
	assert.False(t, a.Intersects(Box{X0: 10, Top: 0, X1: 20, Bottom: 10}), "touching edges")
	assert.False(t, a.Intersects(Box{X0: 0, Top: 20, X1: 10, Bottom: 30}))
	assert.False(t, a.Intersects(Box{X0: 5, Top: 5, X1: 5, Bottom: 8}), "degenerate box")
}
