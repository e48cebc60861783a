package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"menu-digitizer/internal/menutext"
	"menu-digitizer/internal/model"
	"menu-digitizer/internal/vision"

	"github.com/rs/zerolog"
)

const (
	pathJSON     = "json"
	pathFallback = "fallback"

	maxLoggedOutput = 500
)

// extractionService implements ExtractionService.
type extractionService struct {
	vision   vision.Model
	maxBytes int64
	logger   zerolog.Logger
}

// NewExtractionService creates a new extraction service. Images larger
// than maxBytes are rejected; zero disables the limit.
func NewExtractionService(vm vision.Model, maxBytes int64, logger zerolog.Logger) ExtractionService {
	return &extractionService{
		vision:   vm,
		maxBytes: maxBytes,
		logger:   logger.With().Str("service", "extraction").Logger(),
	}
}

// Extract runs the vision model on the image and decodes its answer.
func (s *extractionService) Extract(ctx context.Context, in ExtractInput) (*model.ExtractionResponse, error) {
	if len(in.Image) == 0 {
		return nil, model.ErrImageRequired
	}
	if s.maxBytes > 0 && int64(len(in.Image)) > s.maxBytes {
		return nil, model.ErrImageTooLarge
	}
	mime := vision.DetectMIME(in.MimeType, in.Image)
	if !vision.IsImageMIME(mime) {
		return nil, model.ErrUnsupportedImage
	}

	start := time.Now()
	raw, err := s.vision.Extract(ctx,
		vision.ExtractionSystemPrompt,
		vision.UserPrompt(in.AdditionalText),
		vision.MakeDataURI(mime, in.Image),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("model", s.vision.Name()).
			Str("file_name", in.FileName).
			Msg("vision model call failed")
		return nil, fmt.Errorf("%w: %w", model.ErrModelUnavailable, err)
	}

	s.logger.Debug().Str("output", truncate(raw, maxLoggedOutput)).Msg("raw model output")

	data, path := decodeMenu(raw)
	data.Normalize()

	s.logger.Info().
		Str("file_name", in.FileName).
		Int("file_size", len(in.Image)).
		Str("mime_type", mime).
		Str("path", path).
		Int("categories", len(data.Categories)).
		Int("items", data.ItemCount()).
		Dur("duration", time.Since(start)).
		Msg("menu extracted")

	return &model.ExtractionResponse{
		Success: true,
		Data:    data,
		Metadata: model.ExtractionMetadata{
			FileName: in.FileName,
			FileSize: int64(len(in.Image)),
			MimeType: mime,
		},
	}, nil
}

// decodeMenu accepts the model's answer as JSON when it holds a
// categories array and otherwise parses it line by line. RawText always
// carries the full answer.
func decodeMenu(raw string) (model.ExtractedMenuData, string) {
	if candidate, ok := menutext.ExtractJSONCandidate(raw); ok {
		var probe struct {
			Categories json.RawMessage `json:"categories"`
		}
		if json.Unmarshal([]byte(candidate), &probe) == nil && isArray(probe.Categories) {
			var data model.ExtractedMenuData
			if json.Unmarshal([]byte(candidate), &data) == nil {
				data.RawText = raw
				return data, pathJSON
			}
		}
	}
	return menutext.Parse(raw), pathFallback
}

func isArray(msg json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(msg), []byte("["))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
