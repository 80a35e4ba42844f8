package app

import (
	"math/rand"

	"pdf-quiz-service/internal/domain"
)

// PoolRequest describes which questions a new quiz draws from the bank.
type PoolRequest struct {
	Mode  domain.Mode
	Count int
	// Incorrect holds the ids the player has answered wrongly; used by review mode.
	Incorrect []int
	Shuffle   bool
}

// BuildPool selects the questions of a quiz. The bank slice is never modified.
//   - all: every question in bank order
//   - random: min(Count, len(bank)) distinct questions in random order
//   - review: questions whose id is in Incorrect, in bank order
func BuildPool(bank []domain.Question, req PoolRequest, rnd *rand.Rand) ([]domain.Question, error) {
	if len(bank) == 0 {
		return nil, domain.ErrNoQuestions
	}

	var pool []domain.Question
	switch req.Mode {
	case domain.ModeAll, "":
		pool = append(pool, bank...)
	case domain.ModeRandom:
		if req.Count < 1 {
			return nil, domain.ErrInvalidCount
		}
		n := req.Count
		if n > len(bank) {
			n = len(bank)
		}
		for _, i := range rnd.Perm(len(bank))[:n] {
			pool = append(pool, bank[i])
		}
	case domain.ModeReview:
		wanted := make(map[int]struct{}, len(req.Incorrect))
		for _, id := range req.Incorrect {
			wanted[id] = struct{}{}
		}
		for _, q := range bank {
			if _, ok := wanted[q.ID]; ok {
				pool = append(pool, q)
			}
		}
		if len(pool) == 0 {
			return nil, domain.ErrNoReviewQuestions
		}
	default:
		return nil, domain.ErrInvalidMode
	}

	if req.Shuffle {
		rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	return pool, nil
}
