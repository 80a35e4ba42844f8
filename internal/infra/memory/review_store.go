package memory

import (
	"context"
	"sort"
	"sync"
)

// ReviewStore keeps incorrect-answer sets in process memory; they vanish on restart.
// Sets are held per player and then per bank.
type ReviewStore struct {
	mu   sync.Mutex
	sets map[string]map[string]map[int]struct{}
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{sets: make(map[string]map[string]map[int]struct{})}
}

func (s *ReviewStore) Add(_ context.Context, playerID, bankID string, questionID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	banks, ok := s.sets[playerID]
	if !ok {
		banks = make(map[string]map[int]struct{})
		s.sets[playerID] = banks
	}
	set, ok := banks[bankID]
	if !ok {
		set = make(map[int]struct{})
		banks[bankID] = set
	}
	if _, exists := set[questionID]; exists {
		return false, nil
	}
	set[questionID] = struct{}{}
	return true, nil
}

func (s *ReviewStore) Remove(_ context.Context, playerID, bankID string, questionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[playerID][bankID], questionID)
	return nil
}

func (s *ReviewStore) List(_ context.Context, playerID, bankID string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[playerID][bankID]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
