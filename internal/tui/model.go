package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
)

// Model is a terminal front end for one quiz session.
type Model struct {
	ctx     context.Context
	service *app.QuizService
	state   domain.SessionState

	reviewCount int
	last        *domain.AnswerResult
	cursor      int
	selected    map[string]bool

	askCount bool
	input    textinput.Model

	status  string
	noColor bool
}

// Options configures the terminal model.
type Options struct {
	NoColor bool
}

// NewModel builds a model over an opened session.
func NewModel(ctx context.Context, service *app.QuizService, state domain.SessionState, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "10"
	input.CharLimit = 4
	input.Prompt = "How many questions? "
	input.Cursor.SetMode(cursor.CursorStatic)
	return Model{
		ctx:      ctx,
		service:  service,
		state:    state,
		selected: map[string]bool{},
		input:    input,
		noColor:  opts.NoColor,
	}
}

// Init loads the review counter shown on the menu.
func (m Model) Init() tea.Cmd {
	return loadReview(m.ctx, m.service, m.state.PlayerID, m.state.BankID)
}

// Update reacts to key presses and service replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case stateMsg:
		m = m.withState(typed.state)
		if typed.state.Screen == domain.ScreenMenu {
			return m, loadReview(m.ctx, m.service, m.state.PlayerID, m.state.BankID)
		}
		return m, nil
	case answerMsg:
		m.state = typed.state
		result := typed.result
		m.last = &result
		m.reviewCount = typed.reviewCount
		m.status = ""
		if typed.err != nil {
			m.status = typed.err.Error()
		}
		return m, nil
	case reviewMsg:
		m.reviewCount = typed.count
		return m, nil
	case errMsg:
		m.status = typed.err.Error()
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.askCount {
			return m.updateCount(typed)
		}
		switch m.state.Screen {
		case domain.ScreenQuiz:
			return m.updateQuiz(typed)
		case domain.ScreenSummary:
			return m.updateSummary(typed)
		default:
			return m.updateMenu(typed)
		}
	}
	return m, nil
}

func (m Model) withState(state domain.SessionState) Model {
	if state.Question == nil || m.state.Question == nil || state.Question.ID != m.state.Question.ID || state.Index != m.state.Index {
		m.cursor = 0
		m.selected = map[string]bool{}
		m.last = nil
	}
	m.state = state
	m.status = ""
	return m
}

func (m Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "1":
		return m, startQuiz(m.ctx, m.service, m.state.SessionID, app.StartRequest{Mode: domain.ModeAll})
	case "2":
		m.askCount = true
		m.status = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case "3":
		return m, startQuiz(m.ctx, m.service, m.state.SessionID, app.StartRequest{Mode: domain.ModeReview})
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateCount(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.askCount = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || n < 1 {
			m.status = "Enter a positive number"
			return m, nil
		}
		m.askCount = false
		m.input.Blur()
		return m, startQuiz(m.ctx, m.service, m.state.SessionID, app.StartRequest{Mode: domain.ModeRandom, Count: n})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Model) updateQuiz(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.state.Question
	if q == nil {
		return m, nil
	}
	switch key.String() {
	case "m", "esc":
		return m, backToMenu(m.ctx, m.service, m.state.SessionID)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
		return m, nil
	case " ", "space":
		if !m.state.Answered && len(q.Options) > 0 {
			m.toggle(q.Options[m.cursor].Key)
		}
		return m, nil
	case "enter":
		if m.state.Answered {
			return m, advance(m.ctx, m.service, m.state.SessionID)
		}
		return m, submitAnswer(m.ctx, m.service, m.state.SessionID, m.state.PlayerID, m.state.BankID, m.selection())
	}
	if key.Type == tea.KeyRunes && len(key.Runes) == 1 && !m.state.Answered {
		letter := string(key.Runes)
		for i, opt := range q.Options {
			if opt.Key == letter {
				m.cursor = i
				m.toggle(letter)
			}
		}
	}
	return m, nil
}

func (m Model) updateSummary(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "r":
		return m, startQuiz(m.ctx, m.service, m.state.SessionID, app.StartRequest{Mode: domain.ModeReview})
	case "m", "enter":
		return m, backToMenu(m.ctx, m.service, m.state.SessionID)
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) toggle(key string) {
	selected := make(map[string]bool, len(m.selected)+1)
	for k, v := range m.selected {
		selected[k] = v
	}
	if selected[key] {
		delete(selected, key)
	} else {
		selected[key] = true
	}
	m.selected = selected
}

func (m Model) selection() []string {
	var keys []string
	if m.state.Question == nil {
		return keys
	}
	for _, opt := range m.state.Question.Options {
		if m.selected[opt.Key] {
			keys = append(keys, opt.Key)
		}
	}
	return keys
}

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.state.Screen {
	case domain.ScreenQuiz:
		body = renderQuiz(m)
	case domain.ScreenSummary:
		body = renderSummary(m.state.Summary, m.reviewCount, m.noColor)
	default:
		body = renderMenu(m)
	}
	parts := []string{renderHeader(m.state, m.noColor), body}
	if m.status != "" {
		parts = append(parts, stylize(m.status, m.noColor, lipgloss.Color("196")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}
