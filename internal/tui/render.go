package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"pdf-quiz-service/internal/domain"
)

func renderHeader(state domain.SessionState, noColor bool) string {
	line := "PDF Quiz | Player: " + state.PlayerID
	if state.BankID != "" {
		line += " | Bank: " + state.BankID
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

func renderMenu(m Model) string {
	lines := []string{
		stylize(fmt.Sprintf("Questions to review: %d", m.reviewCount), m.noColor, lipgloss.Color("242")),
		"",
		"1) All questions",
		"2) Random questions",
		"3) Review incorrect answers",
		"q) Quit",
	}
	if m.askCount {
		lines = append(lines, "", m.input.View())
	}
	return strings.Join(lines, "\n")
}

func renderQuiz(m Model) string {
	q := m.state.Question
	if q == nil {
		return ""
	}
	lines := []string{
		stylize(fmt.Sprintf("Question %d/%d | Score: %d", q.Number, m.state.Total, m.state.Summary.Score), m.noColor, lipgloss.Color("242")),
		"",
		fmt.Sprintf("%d. %s", q.ID, q.Text),
	}

	correct := map[string]bool{}
	for _, key := range q.CorrectAnswers {
		correct[key] = true
	}
	for i, opt := range q.Options {
		pointer := "  "
		if i == m.cursor && !m.state.Answered {
			pointer = "> "
		}
		box := "[ ]"
		if m.selected[opt.Key] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s) %s", pointer, box, opt.Key, opt.Text)
		if m.state.Answered && correct[opt.Key] {
			line = stylize(line, m.noColor, lipgloss.Color("42"))
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if m.state.Answered && m.last != nil {
		if m.last.Correct {
			lines = append(lines, stylize("Correct!", m.noColor, lipgloss.Color("42")))
		} else {
			lines = append(lines, stylize("Incorrect. Correct answers: "+strings.Join(q.CorrectAnswers, ", "), m.noColor, lipgloss.Color("196")))
		}
		lines = append(lines, stylize("enter: next | m: menu", m.noColor, lipgloss.Color("244")))
	} else {
		lines = append(lines, stylize("space/letter: toggle | enter: submit | m: menu", m.noColor, lipgloss.Color("244")))
	}
	return strings.Join(lines, "\n")
}

func renderSummary(summary domain.Summary, reviewCount int, noColor bool) string {
	lines := []string{
		stylize("Quiz finished", noColor, lipgloss.Color("33")),
		fmt.Sprintf("Score: %d/%d (%.1f%%)", summary.Score, summary.Total, summary.Percentage),
		fmt.Sprintf("New questions to review: %d", summary.NewlyIncorrect),
		fmt.Sprintf("Questions to review: %d", reviewCount),
		"",
		stylize("r: review incorrect | m: menu | q: quit", noColor, lipgloss.Color("244")),
	}
	return strings.Join(lines, "\n")
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
