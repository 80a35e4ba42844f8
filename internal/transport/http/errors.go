package http

import (
	"errors"
	"log"
	"net/http"

	"pdf-quiz-service/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyAnswered),
		errors.Is(err, domain.ErrNotAnswered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrNoReviewQuestions):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStatsUnavailable):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}
