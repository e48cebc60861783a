//go:build tesseract

package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

// Tesseract reads menus offline with the Tesseract OCR engine. It ignores
// both prompts and returns plain text, which callers recover with the
// fallback parser.
type Tesseract struct {
	language string
	logger   zerolog.Logger
}

// NewTesseract creates an OCR engine for the given language ("eng" when empty).
func NewTesseract(language string, logger zerolog.Logger) (*Tesseract, error) {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		language: language,
		logger:   logger.With().Str("component", "tesseract").Logger(),
	}, nil
}

func (t *Tesseract) Name() string { return "tesseract" }

// Extract runs OCR on the image. A client is created per call because
// gosseract clients are not safe for concurrent use.
func (t *Tesseract) Extract(ctx context.Context, _, _, imageDataURI string) (string, error) {
	_, img, err := DecodeDataURI(imageDataURI)
	if err != nil {
		return "", fmt.Errorf("tesseract: bad image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	// Menus are laid out in columns.
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	text = strings.TrimSpace(text)
	t.logger.Debug().Int("chars", len(text)).Msg("ocr finished")
	return text, nil
}
