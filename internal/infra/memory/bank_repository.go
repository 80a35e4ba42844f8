package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"pdf-quiz-service/internal/domain"
)

// BankLoader fetches a question bank from its backing store (file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks with TTL so repeated sessions do not re-read the source.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

// NewBankRepository wraps loader with a TTL cache; ttl <= 0 keeps entries forever.
func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(bankID, r.clock()); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		now := r.clock()
		if bank, ok := r.cached(bankID, now); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{bank: bank, expiresAt: r.expiry(now)}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate drops a cached bank, e.g. after a re-import.
func (r *BankRepository) Invalidate(bankID string) {
	r.mu.Lock()
	delete(r.cache, bankID)
	r.mu.Unlock()
}

func (r *BankRepository) cached(bankID string, now time.Time) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok || (!entry.expiresAt.IsZero() && !entry.expiresAt.After(now)) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

func (r *BankRepository) expiry(now time.Time) time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return now.Add(r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1)))
}

// StaticBankLoader serves banks from an in-memory map (tests, demos, single-file setups).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks ...domain.Bank) *StaticBankLoader {
	l := &StaticBankLoader{banks: make(map[string]domain.Bank, len(banks))}
	for _, b := range banks {
		l.banks[b.ID] = b
	}
	return l
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
}
