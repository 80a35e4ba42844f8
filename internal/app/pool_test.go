package app

import (
	"errors"
	"math/rand"
	"testing"

	"pdf-quiz-service/internal/domain"
)

func poolBank(n int) []domain.Question {
	bank := make([]domain.Question, n)
	for i := range bank {
		bank[i] = domain.Question{ID: i + 1, Text: "Q", Options: map[string]string{"a": "x"}}
	}
	return bank
}

func ids(pool []domain.Question) []int {
	out := make([]int, len(pool))
	for i, q := range pool {
		out[i] = q.ID
	}
	return out
}

func TestBuildPoolAllKeepsOrder(t *testing.T) {
	bank := poolBank(5)
	pool, err := BuildPool(bank, PoolRequest{Mode: domain.ModeAll}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("build pool: %v", err)
	}
	for i, id := range ids(pool) {
		if id != i+1 {
			t.Fatalf("expected bank order, got %v", ids(pool))
		}
	}

	pool[0].Text = "changed"
	if bank[0].Text != "Q" {
		t.Fatalf("pool must not alias the bank")
	}
}

func TestBuildPoolRandomIsUniqueSample(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		pool, err := BuildPool(poolBank(10), PoolRequest{Mode: domain.ModeRandom, Count: 4}, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("build pool: %v", err)
		}
		if len(pool) != 4 {
			t.Fatalf("expected 4 questions, got %d", len(pool))
		}
		seen := map[int]bool{}
		for _, id := range ids(pool) {
			if seen[id] {
				t.Fatalf("duplicate question %d in %v", id, ids(pool))
			}
			seen[id] = true
		}
	}
}

func TestBuildPoolRandomCapsAtBankSize(t *testing.T) {
	pool, err := BuildPool(poolBank(3), PoolRequest{Mode: domain.ModeRandom, Count: 50}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("build pool: %v", err)
	}
	if len(pool) != 3 {
		t.Fatalf("expected the whole bank, got %d", len(pool))
	}
}

func TestBuildPoolErrors(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	cases := []struct {
		name string
		bank []domain.Question
		req  PoolRequest
		want error
	}{
		{name: "empty bank", bank: nil, req: PoolRequest{Mode: domain.ModeAll}, want: domain.ErrNoQuestions},
		{name: "zero count", bank: poolBank(3), req: PoolRequest{Mode: domain.ModeRandom, Count: 0}, want: domain.ErrInvalidCount},
		{name: "negative count", bank: poolBank(3), req: PoolRequest{Mode: domain.ModeRandom, Count: -2}, want: domain.ErrInvalidCount},
		{name: "nothing to review", bank: poolBank(3), req: PoolRequest{Mode: domain.ModeReview}, want: domain.ErrNoReviewQuestions},
		{name: "stale review ids", bank: poolBank(3), req: PoolRequest{Mode: domain.ModeReview, Incorrect: []int{42}}, want: domain.ErrNoReviewQuestions},
		{name: "unknown mode", bank: poolBank(3), req: PoolRequest{Mode: "sideways"}, want: domain.ErrInvalidMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildPool(tc.bank, tc.req, rnd); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildPoolReviewKeepsBankOrder(t *testing.T) {
	pool, err := BuildPool(poolBank(6), PoolRequest{Mode: domain.ModeReview, Incorrect: []int{5, 2, 4}}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("build pool: %v", err)
	}
	got := ids(pool)
	if len(got) != 3 || got[0] != 2 || got[1] != 4 || got[2] != 5 {
		t.Fatalf("expected [2 4 5], got %v", got)
	}
}

func TestBuildPoolShuffleKeepsMembers(t *testing.T) {
	pool, err := BuildPool(poolBank(8), PoolRequest{Mode: domain.ModeAll, Shuffle: true}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("build pool: %v", err)
	}
	sum := 0
	for _, id := range ids(pool) {
		sum += id
	}
	if len(pool) != 8 || sum != 36 {
		t.Fatalf("shuffle must keep every question once, got %v", ids(pool))
	}
}
