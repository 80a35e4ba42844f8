package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineAt(text string, top float64) Line {
	return Line{Text: text, Box: Box{X0: 50, Top: top, X1: 300, Bottom: top + 12}}
}

func marker(top float64) Highlight {
	return Highlight{Box: Box{X0: 45, Top: top - 2, X1: 310, Bottom: top + 14}, Class: ColorYellow}
}

func TestParser_HighlightedOptionIsCorrect(t *testing.T) {
	p := NewParser()
	highlights := []Highlight{marker(140)}

	p.Feed(lineAt("1. What is X?", 100), highlights)
	p.Feed(lineAt("a) Foo", 120), highlights)
	p.Feed(lineAt("b) Bar", 140), highlights)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	q := questions[0]
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, "What is X?", q.Text)
	assert.Equal(t, map[string]string{"a": "Foo", "b": "Bar"}, q.Options)
	assert.Equal(t, []string{"b"}, q.CorrectAnswers)
}

func TestParser_MultiLineQuestionText(t *testing.T) {
	p := NewParser()

	p.Feed(lineAt("2. Long question", 100), nil)
	p.Feed(lineAt("continues here", 115), nil)
	p.Feed(lineAt("a) X", 130), nil)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Equal(t, 2, questions[0].ID)
	assert.Equal(t, "Long question continues here", questions[0].Text)
	assert.Empty(t, questions[0].CorrectAnswers)
}

func TestParser_OptionContinuationAndRetest(t *testing.T) {
	p := NewParser()
	highlights := []Highlight{marker(160)}

	p.Feed(lineAt("3. Pick", 100), highlights)
	p.Feed(lineAt("a) first", 120), highlights)
	p.Feed(lineAt("b) second option", 140), highlights)
	p.Feed(lineAt("wrapped onto a marked line", 160), highlights)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Equal(t, "second option wrapped onto a marked line", questions[0].Options["b"])
	assert.Equal(t, []string{"b"}, questions[0].CorrectAnswers)
}

func TestParser_ContinuationRetestDisabled(t *testing.T) {
	p := NewParser()
	p.RetestContinuations = false
	highlights := []Highlight{marker(160)}

	p.Feed(lineAt("3. Pick", 100), highlights)
	p.Feed(lineAt("b) second option", 140), highlights)
	p.Feed(lineAt("wrapped onto a marked line", 160), highlights)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Empty(t, questions[0].CorrectAnswers)
}

func TestParser_OverwrittenOptionKeepsPosition(t *testing.T) {
	p := NewParser()

	p.Feed(lineAt("4. Q", 100), nil)
	p.Feed(lineAt("a) one", 120), nil)
	p.Feed(lineAt("b) two", 140), nil)
	p.Feed(lineAt("a) replaced", 160), nil)
	p.Feed(lineAt("more", 180), nil)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Equal(t, "replaced", questions[0].Options["a"])
	assert.Equal(t, "two more", questions[0].Options["b"], "continuation goes to the latest new key")
}

func TestParser_IgnoresLinesBeforeFirstQuestion(t *testing.T) {
	p := NewParser()

	p.Feed(lineAt("Exam header", 50), nil)
	p.Feed(lineAt("a) stray option", 70), nil)
	p.Feed(lineAt("5. Real", 100), nil)
	p.Feed(lineAt("a) yes", 120), nil)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Equal(t, 5, questions[0].ID)
	assert.Equal(t, map[string]string{"a": "yes"}, questions[0].Options)
}

func TestParser_SeveralQuestionsAndHighlights(t *testing.T) {
	p := NewParser()
	highlights := []Highlight{marker(120), marker(140), marker(200)}

	p.Feed(lineAt("1. First", 100), highlights)
	p.Feed(lineAt("a) x", 120), highlights)
	p.Feed(lineAt("b) y", 140), highlights)
	p.Feed(lineAt("2. Second", 180), highlights)
	p.Feed(lineAt("a) z", 200), highlights)
	p.Feed(lineAt("b) w", 220), highlights)

	questions := Clean(p.Finish())

	require.Len(t, questions, 2)
	assert.Equal(t, []string{"a", "b"}, questions[0].CorrectAnswers)
	assert.Equal(t, []string{"a"}, questions[1].CorrectAnswers)
}

func TestClean_DropsIncompleteAndSortsAnswers(t *testing.T) {
	p := NewParser()
	highlights := []Highlight{marker(120), marker(140)}

	p.Feed(lineAt("6.", 80), nil)
	p.Feed(lineAt("7. No options here", 100), nil)
	p.Feed(lineAt("8. Sorted", 110), nil)
	p.Feed(lineAt("c) third", 120), highlights)
	p.Feed(lineAt("a) first", 140), highlights)
	p.Feed(lineAt("c) third again", 120), highlights)

	questions := Clean(p.Finish())

	require.Len(t, questions, 1)
	assert.Equal(t, 8, questions[0].ID)
	assert.Equal(t, []string{"a", "c"}, questions[0].CorrectAnswers)
}
