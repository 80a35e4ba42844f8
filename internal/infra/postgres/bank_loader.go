package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"pdf-quiz-service/internal/domain"
	"pdf-quiz-service/internal/infra/file"
)

// BankLoader loads question banks stored as JSONB in question_banks.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	questions, err := file.Decode(raw)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("bank %q: %w", bankID, err)
	}
	return domain.Bank{ID: bankID, Questions: questions}, nil
}
