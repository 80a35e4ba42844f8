package app

import (
	"sort"
	"sync"
	"time"

	"pdf-quiz-service/internal/domain"
)

// Session is one player's walk through a question pool. All screen transitions
// happen under the session lock so REST, websocket and terminal callers can share it.
type Session struct {
	id        string
	playerID  string
	bankID    string
	createdAt time.Time
	now       func() time.Time

	mu             sync.RWMutex
	screen         domain.Screen
	mode           domain.Mode
	pool           []domain.Question
	index          int
	score          int
	newlyIncorrect int
	answered       bool
	last           *domain.AnswerResult
	subscribers    map[chan domain.SessionState]struct{}
}

// NewSession creates a session parked on the menu screen.
func NewSession(id, playerID, bankID string) *Session {
	return newSessionWithClock(id, playerID, bankID, time.Now)
}

func newSessionWithClock(id, playerID, bankID string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		playerID:    playerID,
		bankID:      bankID,
		createdAt:   now(),
		now:         now,
		screen:      domain.ScreenMenu,
		subscribers: make(map[chan domain.SessionState]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// PlayerID returns the owner of the session.
func (s *Session) PlayerID() string { return s.playerID }

// BankID returns the question bank the session draws from.
func (s *Session) BankID() string { return s.bankID }

// begin resets the counters and enters the quiz screen with the given pool.
// A new quiz can be started from the menu or from the summary of a previous one.
func (s *Session) begin(mode domain.Mode, pool []domain.Question) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen == domain.ScreenQuiz {
		return domain.SessionState{}, domain.ErrInvalidTransition
	}
	if len(pool) == 0 {
		return domain.SessionState{}, domain.ErrNoQuestions
	}
	s.resetLocked()
	s.mode = mode
	s.pool = pool
	s.screen = domain.ScreenQuiz
	return s.broadcastLocked(), nil
}

// submit grades the selection for the current question. It does not notify
// subscribers; settle does once the review set has been updated.
func (s *Session) submit(selection []string) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != domain.ScreenQuiz {
		return domain.AnswerResult{}, domain.ErrInvalidTransition
	}
	if s.answered {
		return domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}

	q := s.pool[s.index]
	selection = normalizeSelection(selection)
	for _, key := range selection {
		if _, ok := q.Options[key]; !ok {
			return domain.AnswerResult{}, domain.ErrOptionNotFound
		}
	}

	correct := q.IsCorrect(selection)
	if correct {
		s.score++
	}
	s.answered = true
	s.last = &domain.AnswerResult{
		QuestionID:     q.ID,
		Selection:      selection,
		Correct:        correct,
		CorrectAnswers: append([]string(nil), q.CorrectAnswers...),
		Score:          s.score,
	}
	return *s.last, nil
}

// settle records whether the last wrong answer entered the review set for the
// first time and publishes the new state.
func (s *Session) settle(newlyIncorrect bool) domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newlyIncorrect {
		s.newlyIncorrect++
	}
	return s.broadcastLocked()
}

// next moves past an answered question, ending on the summary screen.
func (s *Session) next() (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != domain.ScreenQuiz {
		return domain.SessionState{}, domain.ErrInvalidTransition
	}
	if !s.answered {
		return domain.SessionState{}, domain.ErrNotAnswered
	}
	if s.index+1 < len(s.pool) {
		s.index++
		s.answered = false
		s.last = nil
	} else {
		s.screen = domain.ScreenSummary
	}
	return s.broadcastLocked(), nil
}

// menu abandons whatever is on screen and returns to the menu.
func (s *Session) menu() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.mode = ""
	s.screen = domain.ScreenMenu
	return s.broadcastLocked()
}

func (s *Session) state() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) resetLocked() {
	s.pool = nil
	s.index = 0
	s.score = 0
	s.newlyIncorrect = 0
	s.answered = false
	s.last = nil
}

func (s *Session) subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// buffered and fresh, so this cannot block; sending under the lock keeps Close from racing it
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close ends every subscription; stores call it when they discard the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() domain.SessionState {
	state := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// slow reader: drop the oldest snapshot, the newest one wins
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
	return state
}

func (s *Session) snapshotLocked() domain.SessionState {
	state := domain.SessionState{
		SessionID: s.id,
		PlayerID:  s.playerID,
		BankID:    s.bankID,
		CreatedAt: s.createdAt,
		Mode:      s.mode,
		Screen:    s.screen,
		Index:     s.index,
		Total:     len(s.pool),
		Answered:  s.answered,
		Summary:   summarize(s.score, len(s.pool), s.newlyIncorrect),
	}
	if s.last != nil {
		last := *s.last
		state.LastResult = &last
	}
	if s.screen == domain.ScreenQuiz && s.index < len(s.pool) {
		state.Question = viewOf(s.pool[s.index], s.index+1, s.answered)
	}
	return state
}

func viewOf(q domain.Question, number int, reveal bool) *domain.QuestionView {
	view := &domain.QuestionView{ID: q.ID, Number: number, Text: q.Text}
	for _, key := range q.OptionKeys() {
		view.Options = append(view.Options, domain.Option{Key: key, Text: q.Options[key]})
	}
	if reveal {
		view.CorrectAnswers = append([]string{}, q.CorrectAnswers...)
		sort.Strings(view.CorrectAnswers)
	}
	return view
}

func summarize(score, total, newlyIncorrect int) domain.Summary {
	summary := domain.Summary{Score: score, Total: total, NewlyIncorrect: newlyIncorrect}
	if total > 0 {
		summary.Percentage = float64(score) / float64(total) * 100
	}
	return summary
}

func normalizeSelection(selection []string) []string {
	seen := make(map[string]struct{}, len(selection))
	out := make([]string, 0, len(selection))
	for _, key := range selection {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
