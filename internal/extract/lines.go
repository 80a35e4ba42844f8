package extract

import (
	"math"
	"sort"
	"strings"
)

const (
	// DefaultLineTolerance is the vertical distance under which words share a line.
	DefaultLineTolerance = 5.0
	// DefaultWordGap is the horizontal gap that separates two words.
	DefaultWordGap = 3.0
	// defaultRowTolerance clusters glyphs into rows before word splitting.
	defaultRowTolerance = 3.0
)

// Glyph is a positioned piece of text as it comes out of the content stream.
type Glyph struct {
	Text string
	Box  Box
}

// Word is a run of glyphs without a significant horizontal gap.
type Word struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// Line is a reconstructed text line.
type Line struct {
	Text  string `json:"text"`
	Box   Box    `json:"box"`
	Words []Word `json:"words"`
}

// GroupWords turns glyphs into words ordered top to bottom, left to right.
// Blank glyphs stay inside words; only gaps wider than wordGap split them.
func GroupWords(glyphs []Glyph, wordGap float64) []Word {
	if len(glyphs) == 0 {
		return nil
	}
	if wordGap <= 0 {
		wordGap = DefaultWordGap
	}

	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Box.Top < sorted[j].Box.Top })

	var rows [][]Glyph
	for _, g := range sorted {
		if n := len(rows); n > 0 && math.Abs(g.Box.Top-rows[n-1][0].Box.Top) <= defaultRowTolerance {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []Glyph{g})
	}

	var words []Word
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].Box.X0 < row[j].Box.X0 })

		var b strings.Builder
		current := Word{Box: row[0].Box}
		b.WriteString(row[0].Text)
		for _, g := range row[1:] {
			if g.Box.X0-current.Box.X1 > wordGap {
				current.Text = b.String()
				words = appendWord(words, current)
				b.Reset()
				current = Word{Box: g.Box}
				b.WriteString(g.Text)
				continue
			}
			b.WriteString(g.Text)
			current.Box = current.Box.Union(g.Box)
		}
		current.Text = b.String()
		words = appendWord(words, current)
	}
	return words
}

func appendWord(words []Word, w Word) []Word {
	if strings.TrimSpace(w.Text) == "" {
		return words
	}
	return append(words, w)
}

// BuildLines groups consecutive words into lines by vertical proximity to the
// previous word. A page without words yields no lines.
func BuildLines(words []Word, tolerance float64) []Line {
	if len(words) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultLineTolerance
	}

	var groups [][]Word
	current := []Word{words[0]}
	for _, w := range words[1:] {
		if math.Abs(w.Box.Top-current[len(current)-1].Box.Top) < tolerance {
			current = append(current, w)
			continue
		}
		groups = append(groups, current)
		current = []Word{w}
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for _, group := range groups {
		texts := make([]string, len(group))
		box := group[0].Box
		for i, w := range group {
			texts[i] = w.Text
			box = box.Union(w.Box)
		}
		lines = append(lines, Line{
			Text:  strings.TrimSpace(strings.Join(texts, " ")),
			Box:   box,
			Words: group,
		})
	}
	return lines
}
