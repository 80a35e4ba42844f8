package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
)

// stateMsg carries a fresh session snapshot.
type stateMsg struct {
	state domain.SessionState
}

// answerMsg carries a graded answer and the refreshed review count.
type answerMsg struct {
	result      domain.AnswerResult
	state       domain.SessionState
	reviewCount int
	err         error
}

// reviewMsg carries the size of the player's review set.
type reviewMsg struct {
	count int
}

// errMsg reports a failed service call.
type errMsg struct {
	err error
}

func loadReview(ctx context.Context, service *app.QuizService, playerID, bankID string) tea.Cmd {
	return func() tea.Msg {
		n, err := service.ReviewCount(ctx, playerID, bankID)
		if err != nil {
			return errMsg{err: err}
		}
		return reviewMsg{count: n}
	}
}

func startQuiz(ctx context.Context, service *app.QuizService, sessionID string, req app.StartRequest) tea.Cmd {
	return func() tea.Msg {
		state, err := service.Start(ctx, sessionID, req)
		if err != nil {
			return errMsg{err: err}
		}
		return stateMsg{state: state}
	}
}

func submitAnswer(ctx context.Context, service *app.QuizService, sessionID, playerID, bankID string, selection []string) tea.Cmd {
	return func() tea.Msg {
		result, state, err := service.Answer(ctx, sessionID, selection)
		if err != nil && state.SessionID == "" {
			return errMsg{err: err}
		}
		count, cerr := service.ReviewCount(ctx, playerID, bankID)
		if err == nil {
			err = cerr
		}
		return answerMsg{result: result, state: state, reviewCount: count, err: err}
	}
}

func advance(ctx context.Context, service *app.QuizService, sessionID string) tea.Cmd {
	return func() tea.Msg {
		state, err := service.Next(ctx, sessionID)
		if err != nil {
			return errMsg{err: err}
		}
		return stateMsg{state: state}
	}
}

func backToMenu(ctx context.Context, service *app.QuizService, sessionID string) tea.Cmd {
	return func() tea.Msg {
		state, err := service.Menu(ctx, sessionID)
		if err != nil {
			return errMsg{err: err}
		}
		return stateMsg{state: state}
	}
}
