package domain

import (
	"fmt"
	"sort"
	"time"
)

// Question is one multiple-choice record of the question bank file.
// Field names are shared with other tools that read the file and must not change.
type Question struct {
	ID             int               `json:"id"`
	Text           string            `json:"text"`
	Options        map[string]string `json:"options"`
	CorrectAnswers []string          `json:"correct_answers"`
}

// Validate checks the record invariants: non-empty text, at least one option and
// correct answers drawn from the option keys.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question %d: empty text", q.ID)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %d: no options", q.ID)
	}
	for _, key := range q.CorrectAnswers {
		if _, ok := q.Options[key]; !ok {
			return fmt.Errorf("question %d: correct answer %q is not an option", q.ID, key)
		}
	}
	return nil
}

// OptionKeys returns the option letters in ascending order.
func (q Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for key := range q.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsCorrect reports whether the selection equals the correct answer set exactly.
// Duplicate letters in the selection are ignored.
func (q Question) IsCorrect(selection []string) bool {
	chosen := make(map[string]struct{}, len(selection))
	for _, key := range selection {
		chosen[key] = struct{}{}
	}
	want := make(map[string]struct{}, len(q.CorrectAnswers))
	for _, key := range q.CorrectAnswers {
		want[key] = struct{}{}
	}
	if len(chosen) != len(want) {
		return false
	}
	for key := range chosen {
		if _, ok := want[key]; !ok {
			return false
		}
	}
	return true
}

// Bank is a named collection of questions.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Mode selects how a session pool is built.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeRandom Mode = "random"
	ModeReview Mode = "review"
)

// ParseMode validates a mode name; empty means ModeAll.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeRandom:
		return ModeRandom, nil
	case ModeReview:
		return ModeReview, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// Screen is the visible step of a play session.
type Screen string

const (
	ScreenMenu    Screen = "menu"
	ScreenQuiz    Screen = "quiz"
	ScreenSummary Screen = "summary"
)

// QuestionView is what a player sees of the current question.
// Correct answers are only filled in once the question has been answered.
type QuestionView struct {
	ID             int      `json:"id"`
	Number         int      `json:"number"`
	Text           string   `json:"text"`
	Options        []Option `json:"options"`
	CorrectAnswers []string `json:"correctAnswers,omitempty"`
}

// Option is one lettered answer in display order.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// AnswerResult summarizes the grading of a single submission.
type AnswerResult struct {
	QuestionID     int      `json:"questionId"`
	Selection      []string `json:"selection"`
	Correct        bool     `json:"correct"`
	CorrectAnswers []string `json:"correctAnswers"`
	Score          int      `json:"score"`
}

// Summary is the end-of-session scoreboard.
type Summary struct {
	Score          int     `json:"score"`
	Total          int     `json:"total"`
	Percentage     float64 `json:"percentage"`
	NewlyIncorrect int     `json:"newlyIncorrect"`
}

// SessionState is a snapshot of a play session.
type SessionState struct {
	SessionID  string        `json:"sessionId"`
	PlayerID   string        `json:"playerId"`
	BankID     string        `json:"bankId"`
	CreatedAt  time.Time     `json:"createdAt"`
	Mode       Mode          `json:"mode"`
	Screen     Screen        `json:"screen"`
	Index      int           `json:"index"`
	Total      int           `json:"total"`
	Answered   bool          `json:"answered"`
	Question   *QuestionView `json:"question,omitempty"`
	LastResult *AnswerResult `json:"lastResult,omitempty"`
	Summary    Summary       `json:"summary"`
}

// PlayerStats counts a player's logged answers.
type PlayerStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// MissCount is how often a question was answered wrongly.
type MissCount struct {
	BankID     string `json:"bankId"`
	QuestionID int    `json:"questionId"`
	Count      int    `json:"count"`
}
