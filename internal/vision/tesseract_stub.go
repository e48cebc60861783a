//go:build !tesseract

package vision

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrTesseractUnavailable is returned when the binary was built without
// the tesseract build tag.
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in; rebuild with -tags tesseract")

// Tesseract is unavailable in this build.
type Tesseract struct{}

// NewTesseract always fails in builds without the tesseract tag.
func NewTesseract(string, zerolog.Logger) (*Tesseract, error) {
	return nil, ErrTesseractUnavailable
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Extract(context.Context, string, string, string) (string, error) {
	return "", ErrTesseractUnavailable
}
