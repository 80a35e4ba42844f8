package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultMaxFileSize caps the input document size.
const DefaultMaxFileSize = 100 * 1024 * 1024

// Validator rejects inputs that cannot be extracted before any parsing starts.
type Validator struct {
	maxFileSize int64
	structural  bool
}

// NewValidator creates a validator. With structural set the file is also checked by pdfcpu.
func NewValidator(maxFileSize int64, structural bool) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize, structural: structural}
}

// Validate checks that path names a readable, well-formed PDF file.
func (v *Validator) Validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %s is %d bytes (max: %d bytes)", path, info.Size(), v.maxFileSize)
	}

	if !v.structural {
		return nil
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("invalid PDF file %s: %w", path, err)
	}
	return nil
}
