package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
	"pdf-quiz-service/internal/infra/memory"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	bank := domain.Bank{
		ID: "default",
		Questions: []domain.Question{
			{ID: 1, Text: "What is 2 + 2?", Options: map[string]string{"a": "3", "b": "4"}, CorrectAnswers: []string{"b"}},
			{ID: 2, Text: "Pick the primes", Options: map[string]string{"a": "2", "b": "4", "c": "5"}, CorrectAnswers: []string{"a", "c"}},
		},
	}
	service := app.NewQuizService(
		memory.NewSessionStore(),
		memory.NewBankRepository(memory.NewStaticBankLoader(bank), time.Minute),
		memory.NewReviewStore(),
		app.Options{},
	)
	state, err := service.Open(context.Background(), "alice", "default")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return NewModel(context.Background(), service, state, Options{NoColor: true})
}

// press feeds a key through Update and runs the resulting command once.
func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	return deliver(t, m, msg)
}

func deliver(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case out := <-done:
		switch out.(type) {
		case nil, tea.QuitMsg:
			return m
		}
		return deliver(t, m, out)
	case <-time.After(2 * time.Second):
		t.Fatalf("command for %T did not finish", msg)
	}
	return m
}

func TestModelPlaysFullQuiz(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "1) All questions") {
		t.Fatalf("expected menu, got:\n%s", m.View())
	}

	m = press(t, m, "1")
	if m.state.Screen != domain.ScreenQuiz {
		t.Fatalf("expected quiz screen, got %s", m.state.Screen)
	}
	if !strings.Contains(m.View(), "1. What is 2 + 2?") {
		t.Fatalf("expected first question, got:\n%s", m.View())
	}

	// wrong answer on the first question
	m = press(t, m, "a")
	m = press(t, m, "enter")
	if m.last == nil || m.last.Correct {
		t.Fatalf("expected incorrect result, got %+v", m.last)
	}
	if !strings.Contains(m.View(), "Incorrect. Correct answers: b") {
		t.Fatalf("expected correction, got:\n%s", m.View())
	}
	if m.reviewCount != 1 {
		t.Fatalf("expected review count 1, got %d", m.reviewCount)
	}

	m = press(t, m, "enter")
	if m.state.Index != 1 || len(m.selected) != 0 {
		t.Fatalf("expected second question with a clear selection, got index %d selected %v", m.state.Index, m.selected)
	}

	m = press(t, m, "space")
	m = press(t, m, "c")
	m = press(t, m, "enter")
	if m.last == nil || !m.last.Correct {
		t.Fatalf("expected correct result, got %+v", m.last)
	}

	m = press(t, m, "enter")
	if m.state.Screen != domain.ScreenSummary {
		t.Fatalf("expected summary, got %s", m.state.Screen)
	}
	view := m.View()
	if !strings.Contains(view, "Score: 1/2 (50.0%)") || !strings.Contains(view, "New questions to review: 1") {
		t.Fatalf("unexpected summary:\n%s", view)
	}

	m = press(t, m, "r")
	if m.state.Mode != domain.ModeReview || m.state.Total != 1 {
		t.Fatalf("expected review quiz of one question, got %+v", m.state)
	}
}

func TestModelRandomCountPrompt(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "2")
	if !m.askCount {
		t.Fatalf("expected count prompt")
	}
	m = press(t, m, "x")
	m = press(t, m, "enter")
	if m.status == "" || m.state.Screen != domain.ScreenMenu {
		t.Fatalf("expected validation message on menu, got status %q screen %s", m.status, m.state.Screen)
	}

	m = press(t, m, "esc")
	m = press(t, m, "2")
	m = press(t, m, "5")
	m = press(t, m, "enter")
	if m.state.Mode != domain.ModeRandom || m.state.Total != 2 {
		t.Fatalf("expected random quiz capped at bank size, got %+v", m.state)
	}
}

func TestModelReviewWithNothingToReview(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "3")

	if m.state.Screen != domain.ScreenMenu {
		t.Fatalf("expected to stay on menu, got %s", m.state.Screen)
	}
	if !strings.Contains(m.View(), domain.ErrNoReviewQuestions.Error()) {
		t.Fatalf("expected error in view, got:\n%s", m.View())
	}
}

func TestModelGradesEmptySelection(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "1")

	m = press(t, m, "enter")
	if !m.state.Answered || m.last == nil || m.last.Correct {
		t.Fatalf("expected an empty selection to be graded incorrect, got %+v", m.last)
	}
	if m.reviewCount != 1 {
		t.Fatalf("expected the question in review, got %d", m.reviewCount)
	}

	m = press(t, m, "m")
	if m.state.Screen != domain.ScreenMenu {
		t.Fatalf("expected menu after abort, got %s", m.state.Screen)
	}
}
