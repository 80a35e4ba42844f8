package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"pdf-quiz-service/internal/domain"
)

// BankLoader fetches a question bank from its backing store (file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks in Redis and falls back to a loader on cache miss.
// Questions are stored as: HSET bank:{bankID}:questions {questionID} {question JSON}
// and come back ordered by id, which is the order of the bank file.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	key := r.questionsKey(bankID)

	if bank, ok := r.fromCache(ctx, bankID, key); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, bankID, key); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		pipe := r.client.Pipeline()
		for _, q := range bank.Questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return domain.Bank{}, fmt.Errorf("encode question %d: %w", q.ID, err)
			}
			pipe.HSet(ctx, key, strconv.Itoa(q.ID), raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("cache bank %s in redis: %v", bankID, err)
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate drops the cached copy of a bank.
func (r *BankRepository) Invalidate(ctx context.Context, bankID string) error {
	return r.client.Del(ctx, r.questionsKey(bankID)).Err()
}

func (r *BankRepository) fromCache(ctx context.Context, bankID, key string) (domain.Bank, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Bank{}, false
	}
	bank, err := buildBankFromCache(bankID, fields)
	if err != nil {
		log.Printf("discard cached bank %s: %v", bankID, err)
		return domain.Bank{}, false
	}
	return bank, true
}

func (r *BankRepository) questionsKey(bankID string) string {
	return "bank:" + bankID + ":questions"
}

func buildBankFromCache(bankID string, fields map[string]string) (domain.Bank, error) {
	questions := make([]domain.Question, 0, len(fields))
	for field, raw := range fields {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return domain.Bank{}, fmt.Errorf("question %s: %w", field, err)
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return domain.Bank{ID: bankID, Questions: questions}, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
