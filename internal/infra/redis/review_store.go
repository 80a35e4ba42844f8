package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ReviewStore keeps each player's incorrect answers per bank in a Redis set:
// SADD review:{playerID}:{bankID} {questionID}
type ReviewStore struct {
	client *redis.Client
}

func NewReviewStore(client *redis.Client) *ReviewStore {
	return &ReviewStore{client: client}
}

func (s *ReviewStore) Add(ctx context.Context, playerID, bankID string, questionID int) (bool, error) {
	n, err := s.client.SAdd(ctx, s.key(playerID, bankID), questionID).Result()
	if err != nil {
		return false, fmt.Errorf("add review question %d of %s for %s: %w", questionID, bankID, playerID, err)
	}
	return n == 1, nil
}

func (s *ReviewStore) Remove(ctx context.Context, playerID, bankID string, questionID int) error {
	if err := s.client.SRem(ctx, s.key(playerID, bankID), questionID).Err(); err != nil {
		return fmt.Errorf("remove review question %d of %s for %s: %w", questionID, bankID, playerID, err)
	}
	return nil
}

func (s *ReviewStore) List(ctx context.Context, playerID, bankID string) ([]int, error) {
	members, err := s.client.SMembers(ctx, s.key(playerID, bankID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("list review questions of %s for %s: %w", bankID, playerID, err)
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("review set of %s for %s: bad member %q", bankID, playerID, m)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *ReviewStore) key(playerID, bankID string) string {
	return "review:" + playerID + ":" + bankID
}
