package service

import (
	"context"
	"fmt"
	"strings"

	"menu-digitizer/internal/imagegen"
	"menu-digitizer/internal/model"

	"github.com/rs/zerolog"
)

// imageService implements ImageService.
type imageService struct {
	model  imagegen.Model
	logger zerolog.Logger
}

// NewImageService creates a new image generation service.
func NewImageService(m imagegen.Model, logger zerolog.Logger) ImageService {
	return &imageService{
		model:  m,
		logger: logger.With().Str("service", "image").Logger(),
	}
}

// Generate creates a picture for the named item.
func (s *imageService) Generate(ctx context.Context, req *model.ImageRequest) (*model.ImageResponse, error) {
	if req == nil {
		return nil, model.ErrItemNameRequired
	}
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return nil, model.ErrItemNameRequired
	}

	prompt := buildImagePrompt(name, req.AdditionalPrompt)

	img, err := s.model.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("item_name", name).Msg("image model call failed")
		return nil, fmt.Errorf("%w: %w", model.ErrImageGeneration, err)
	}
	if img.Base64 == "" {
		s.logger.Warn().Str("item_name", name).Msg("image model returned no data")
		return nil, model.ErrNoImageData
	}

	s.logger.Info().Str("item_name", name).Str("mime_type", img.MimeType).Msg("item image generated")

	return &model.ImageResponse{
		Success: true,
		Image:   "data:" + img.MimeType + ";base64," + img.Base64,
		Prompt:  prompt,
	}, nil
}

func buildImagePrompt(name string, additional *string) string {
	prompt := "A professional, appetizing photograph of " + name + " as served in a restaurant."
	if additional != nil {
		if extra := strings.TrimSpace(*additional); extra != "" {
			prompt += " " + extra
		}
	}
	return prompt
}
