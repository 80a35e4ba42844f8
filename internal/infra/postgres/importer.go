package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"pdf-quiz-service/internal/domain"
)

type bankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	ID            string            `bun:"id,pk"`
	Questions     []domain.Question `bun:"data,type:jsonb"`
	QuestionCount int               `bun:"question_count"`
	UpdatedAt     time.Time         `bun:"updated_at"`
}

func newBankRow(bank domain.Bank, now time.Time) (*bankRow, error) {
	questions := make([]domain.Question, len(bank.Questions))
	copy(questions, bank.Questions)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	return &bankRow{ID: bank.ID, Questions: questions, QuestionCount: len(questions), UpdatedAt: now}, nil
}

// Importer upserts whole banks into question_banks.
type Importer struct {
	db  *bun.DB
	now func() time.Time
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// Import replaces the stored bank with the given questions.
func (i *Importer) Import(ctx context.Context, bank domain.Bank) error {
	row, err := newBankRow(bank, i.now())
	if err != nil {
		return fmt.Errorf("import bank %q: %w", bank.ID, err)
	}
	_, err = i.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("question_count = EXCLUDED.question_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("import bank %q: %w", bank.ID, err)
	}
	return nil
}
