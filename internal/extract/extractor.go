package extract

import (
	"context"
	"errors"
	"fmt"

	"pdf-quiz-service/internal/domain"
)

var (
	// ErrNoText is returned for documents without any extractable text (scans, images).
	ErrNoText = errors.New("no text content could be extracted")
	// ErrDuplicateQuestion is returned when two questions carry the same number.
	// The bank file requires unique ids.
	ErrDuplicateQuestion = errors.New("duplicate question number")
)

// Options tunes the extraction heuristics.
type Options struct {
	LineTolerance       float64
	WordGap             float64
	RetestContinuations bool
	// StructuralValidation runs pdfcpu over the file before extraction.
	StructuralValidation bool
	MaxFileSize          int64
}

// DefaultOptions returns the stock extraction heuristics.
func DefaultOptions() Options {
	return Options{
		LineTolerance:        DefaultLineTolerance,
		WordGap:              DefaultWordGap,
		RetestContinuations:  true,
		StructuralValidation: true,
		MaxFileSize:          DefaultMaxFileSize,
	}
}

// Extractor turns a highlighted PDF into question records.
type Extractor struct {
	opts      Options
	validator *Validator
	open      func(path string) (Document, error)
}

// New builds an extractor reading PDFs with ledongthuc/pdf.
func New(opts Options) *Extractor {
	return &Extractor{
		opts:      opts,
		validator: NewValidator(opts.MaxFileSize, opts.StructuralValidation),
		open: func(path string) (Document, error) {
			return OpenDocument(path)
		},
	}
}

// ExtractFile validates and extracts a PDF file. Any failure aborts the whole run.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]domain.Question, error) {
	if err := e.validator.Validate(path); err != nil {
		return nil, err
	}
	doc, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	questions, err := e.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return questions, nil
}

// Extract runs the line reconstruction and question parser over every page in order.
func (e *Extractor) Extract(ctx context.Context, doc Document) ([]domain.Question, error) {
	parser := NewParser()
	parser.RetestContinuations = e.opts.RetestContinuations

	glyphs := 0
	for n := 1; n <= doc.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Page(n)
		if err != nil {
			return nil, err
		}
		glyphs += len(page.Glyphs)

		lines := BuildLines(GroupWords(page.Glyphs, e.opts.WordGap), e.opts.LineTolerance)
		for _, line := range lines {
			parser.Feed(line, page.Highlights)
		}
	}
	if glyphs == 0 {
		return nil, ErrNoText
	}
	questions := Clean(parser.Finish())
	if err := checkUniqueIDs(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func checkUniqueIDs(questions []domain.Question) error {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w %d", ErrDuplicateQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}
