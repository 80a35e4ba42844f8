package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pdf-quiz-service/internal/domain"
)

var (
	questionLine = regexp.MustCompile(`^(\d+)\.\s*(.*)`)
	optionLine   = regexp.MustCompile(`^([a-z])\)\s*(.*)`)
)

// draft is a question under construction. Option keys keep their first insertion order
// so continuation lines land on the most recently introduced option.
type draft struct {
	question domain.Question
	order    []string
	correct  map[string]bool
}

func newDraft(id int, text string) *draft {
	return &draft{
		question: domain.Question{ID: id, Text: text, Options: map[string]string{}},
		correct:  map[string]bool{},
	}
}

func (d *draft) setOption(key, text string) {
	if _, ok := d.question.Options[key]; !ok {
		d.order = append(d.order, key)
	}
	d.question.Options[key] = text
}

func (d *draft) markCorrect(key string) {
	d.correct[key] = true
	d.question.CorrectAnswers = append(d.question.CorrectAnswers, key)
}

// Parser turns reconstructed lines into question records.
// A question starts at "N. text"; "x) text" lines add options while a question is open;
// anything else continues the question text or the latest option.
type Parser struct {
	// RetestContinuations re-checks highlight overlap on option continuation lines.
	// A highlight spanning two adjacent options can then be attributed to the wrong one.
	RetestContinuations bool

	current *draft
	done    []domain.Question
}

// NewParser returns a parser with continuation re-testing enabled.
func NewParser() *Parser {
	return &Parser{RetestContinuations: true}
}

// Feed processes one line together with the highlights of its page.
func (p *Parser) Feed(line Line, highlights []Highlight) {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return
	}

	if m := questionLine.FindStringSubmatch(text); m != nil {
		id, err := strconv.Atoi(m[1])
		if err == nil {
			p.flush()
			p.current = newDraft(id, strings.TrimSpace(m[2]))
			return
		}
	}

	if p.current == nil {
		return
	}

	if m := optionLine.FindStringSubmatch(text); m != nil {
		key := m[1]
		p.current.setOption(key, strings.TrimSpace(m[2]))
		if anyOverlap(line.Box, highlights) {
			p.current.markCorrect(key)
		}
		return
	}

	if len(p.current.order) == 0 {
		p.current.question.Text = joinText(p.current.question.Text, text)
		return
	}

	last := p.current.order[len(p.current.order)-1]
	p.current.question.Options[last] = joinText(p.current.question.Options[last], text)
	if p.RetestContinuations && !p.current.correct[last] && anyOverlap(line.Box, highlights) {
		p.current.markCorrect(last)
	}
}

// Finish closes the in-progress question and returns everything parsed so far.
func (p *Parser) Finish() []domain.Question {
	p.flush()
	out := p.done
	p.done = nil
	return out
}

func (p *Parser) flush() {
	if p.current == nil {
		return
	}
	p.done = append(p.done, p.current.question)
	p.current = nil
}

func joinText(base, more string) string {
	if base == "" {
		return more
	}
	return base + " " + more
}

// Clean deduplicates and sorts correct answers and drops records without text or options.
func Clean(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		q.CorrectAnswers = uniqueSorted(q.CorrectAnswers)
		if q.Text == "" || len(q.Options) == 0 {
			continue
		}
		out = append(out, q)
	}
	return out
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
