package cli

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/config"
	"pdf-quiz-service/internal/infra/file"
	"pdf-quiz-service/internal/infra/memory"
	pgstore "pdf-quiz-service/internal/infra/postgres"
	redisstore "pdf-quiz-service/internal/infra/redis"
	"pdf-quiz-service/internal/infra/sqlite"
)

// backends holds the storage picked from config; close releases it.
type backends struct {
	service *app.QuizService
	closers []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// buildService wires storage from config: Postgres or the bank file as the
// source of banks, Redis or memory for caches and sessions, SQLite, Redis or
// memory for review sets.
func buildService(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.BankLoader = file.NewBankLoader(cfg.Quiz.BankPath, cfg.Quiz.BankID)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		loader = pgstore.NewBankLoader(pool)
		log.Printf("serving banks from postgres")
	} else {
		log.Printf("serving bank %q from %s", cfg.Quiz.BankID, cfg.Quiz.BankPath)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.SessionTTL, 30*time.Minute))
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		sessions = memory.NewSessionStore()
	}

	var reviews app.ReviewStore
	switch {
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		reviews = store
	case redisClient != nil:
		reviews = redisstore.NewReviewStore(redisClient)
	default:
		reviews = memory.NewReviewStore()
	}

	b.service = app.NewQuizService(sessions, banks, reviews, app.Options{
		Shuffle: cfg.Quiz.Shuffle,
		Seed:    cfg.Quiz.Seed,
	})
	return b, nil
}
