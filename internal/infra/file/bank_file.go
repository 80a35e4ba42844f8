package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pdf-quiz-service/internal/domain"
)

// DefaultPath is where the extractor writes and the quiz reads the question bank.
const DefaultPath = "baza_pytan.json"

// Encode renders questions in the bank file format: a JSON array sorted by id,
// two-space indentation and non-ASCII text kept verbatim.
func Encode(questions []domain.Question) ([]byte, error) {
	sorted := make([]domain.Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for i := range sorted {
		if sorted[i].CorrectAnswers == nil {
			sorted[i].CorrectAnswers = []string{}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sorted); err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a bank file body.
func Decode(data []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// Save writes questions to path, replacing any previous file.
func Save(path string, questions []domain.Question) error {
	data, err := Encode(questions)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads a bank file. A missing file yields domain.ErrBankNotFound.
func Load(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrBankNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	questions, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}

// BankLoader serves a single bank file under a fixed bank id.
type BankLoader struct {
	path   string
	bankID string
}

func NewBankLoader(path, bankID string) *BankLoader {
	return &BankLoader{path: path, bankID: bankID}
}

func (l *BankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID != l.bankID {
		return domain.Bank{}, fmt.Errorf("bank %q: %w", bankID, domain.ErrBankNotFound)
	}
	questions, err := Load(l.path)
	if err != nil {
		return domain.Bank{}, err
	}
	return domain.Bank{ID: bankID, Questions: questions}, nil
}
