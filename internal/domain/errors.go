package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a play session does not exist (or expired).
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be located.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrOptionNotFound indicates a selected letter is not an option of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNoQuestions is returned when a session would start with an empty pool.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNoReviewQuestions is returned when a review session is requested with nothing to review.
	ErrNoReviewQuestions = errors.New("no questions to review")
	// ErrInvalidMode rejects unknown session modes.
	ErrInvalidMode = errors.New("invalid session mode")
	// ErrInvalidCount rejects random sessions with a non-positive size.
	ErrInvalidCount = errors.New("question count must be positive")
	// ErrInvalidTransition is returned when an action does not fit the current screen.
	ErrInvalidTransition = errors.New("action not allowed on current screen")
	// ErrAlreadyAnswered is returned on a second submission for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing before answering.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrStatsUnavailable is returned when the review store keeps no answer log.
	ErrStatsUnavailable = errors.New("answer statistics not available")
)
