package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"pdf-quiz-service/internal/domain"
)

// SessionRepository abstracts where play sessions live (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Create(playerID, bankID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache or backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ReviewStore keeps the set of questions a player answered incorrectly, one set per bank.
// Question ids are only unique within a bank.
type ReviewStore interface {
	// Add puts the question in the set and reports whether it was absent before.
	Add(ctx context.Context, playerID, bankID string, questionID int) (bool, error)
	Remove(ctx context.Context, playerID, bankID string, questionID int) error
	// List returns the ids in ascending order.
	List(ctx context.Context, playerID, bankID string) ([]int, error)
}

// AnswerLog is implemented by review stores that also keep every graded answer.
type AnswerLog interface {
	Stats(ctx context.Context, playerID string) (domain.PlayerStats, error)
	MostMissed(ctx context.Context, playerID string, limit int) ([]domain.MissCount, error)
}

// Options tunes quiz construction.
type Options struct {
	// Shuffle randomizes the order of every pool, including full and review runs.
	Shuffle bool
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64
}

// QuizService contains the quiz use cases shared by every front end.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	reviews  ReviewStore
	shuffle  bool

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizService(sessions SessionRepository, banks BankRepository, reviews ReviewStore, opts Options) *QuizService {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &QuizService{
		sessions: sessions,
		banks:    banks,
		reviews:  reviews,
		shuffle:  opts.Shuffle,
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

// StartRequest selects the pool of a new quiz.
type StartRequest struct {
	Mode  domain.Mode
	Count int
}

// Open creates a session on the menu screen. Unknown banks are rejected up front.
func (s *QuizService) Open(ctx context.Context, playerID, bankID string) (domain.SessionState, error) {
	if _, err := s.banks.GetBank(ctx, bankID); err != nil {
		return domain.SessionState{}, err
	}
	session := s.sessions.Create(playerID, bankID)
	return session.state(), nil
}

// Start builds a pool for the session and shows its first question.
func (s *QuizService) Start(ctx context.Context, sessionID string, req StartRequest) (domain.SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	bank, err := s.banks.GetBank(ctx, session.BankID())
	if err != nil {
		return domain.SessionState{}, err
	}

	poolReq := PoolRequest{Mode: req.Mode, Count: req.Count, Shuffle: s.shuffle}
	if req.Mode == domain.ModeReview {
		ids, err := s.reviews.List(ctx, session.PlayerID(), session.BankID())
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("list review questions: %w", err)
		}
		poolReq.Incorrect = ids
	}

	s.rndMu.Lock()
	pool, err := BuildPool(bank.Questions, poolReq, s.rnd)
	s.rndMu.Unlock()
	if err != nil {
		return domain.SessionState{}, err
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeAll
	}
	return session.begin(mode, pool)
}

// Answer grades the selection for the current question and updates the player's review set:
// a correct answer removes the question, a wrong one adds it.
func (s *QuizService) Answer(ctx context.Context, sessionID string, selection []string) (domain.AnswerResult, domain.SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.AnswerResult{}, domain.SessionState{}, err
	}
	result, err := session.submit(selection)
	if err != nil {
		return domain.AnswerResult{}, domain.SessionState{}, err
	}

	added := false
	if result.Correct {
		err = s.reviews.Remove(ctx, session.PlayerID(), session.BankID(), result.QuestionID)
	} else {
		added, err = s.reviews.Add(ctx, session.PlayerID(), session.BankID(), result.QuestionID)
	}
	state := session.settle(added)
	if err != nil {
		log.Printf("review set update failed for player %s bank %s question %d: %v", session.PlayerID(), session.BankID(), result.QuestionID, err)
		return result, state, fmt.Errorf("update review set: %w", err)
	}
	return result, state, nil
}

// Next advances to the following question or to the summary.
func (s *QuizService) Next(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.next()
}

// Menu aborts the running quiz (or leaves the summary) and shows the menu.
func (s *QuizService) Menu(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.menu(), nil
}

// State returns the current snapshot of a session.
func (s *QuizService) State(_ context.Context, sessionID string) (domain.SessionState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionState{}, err
	}
	return session.state(), nil
}

// Subscribe returns a channel that receives state snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionState, func(), error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End discards the session and closes its subscriptions. Unknown ids are ignored.
func (s *QuizService) End(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	session.Close()
}

// ReviewQuestions lists the question ids of a bank the player still has to review.
func (s *QuizService) ReviewQuestions(ctx context.Context, playerID, bankID string) ([]int, error) {
	ids, err := s.reviews.List(ctx, playerID, bankID)
	if err != nil {
		return nil, fmt.Errorf("list review questions: %w", err)
	}
	return ids, nil
}

// ReviewCount is the size of the player's review set for a bank.
func (s *QuizService) ReviewCount(ctx context.Context, playerID, bankID string) (int, error) {
	ids, err := s.ReviewQuestions(ctx, playerID, bankID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Stats reports the player's answer log when the review store keeps one.
func (s *QuizService) Stats(ctx context.Context, playerID string, missedLimit int) (domain.PlayerStats, []domain.MissCount, error) {
	history, ok := s.reviews.(AnswerLog)
	if !ok {
		return domain.PlayerStats{}, nil, domain.ErrStatsUnavailable
	}
	stats, err := history.Stats(ctx, playerID)
	if err != nil {
		return domain.PlayerStats{}, nil, fmt.Errorf("answer stats: %w", err)
	}
	missed, err := history.MostMissed(ctx, playerID, missedLimit)
	if err != nil {
		return domain.PlayerStats{}, nil, fmt.Errorf("most missed questions: %w", err)
	}
	return stats, missed, nil
}

// Bank returns a question bank through the repository cache.
func (s *QuizService) Bank(ctx context.Context, bankID string) (domain.Bank, error) {
	return s.banks.GetBank(ctx, bankID)
}

func (s *QuizService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
