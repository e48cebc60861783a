package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Gemini calls a Google Gemini model through the generative-ai SDK.
type Gemini struct {
	apiKey string
	model  string
	logger zerolog.Logger
}

// NewGemini creates a Gemini vision model.
func NewGemini(apiKey, model string, logger zerolog.Logger) *Gemini {
	return &Gemini{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		logger: logger.With().Str("component", "gemini").Logger(),
	}
}

func (g *Gemini) Name() string { return "gemini" }

// Extract sends the image with both prompts and returns the first text part
// of the answer.
func (g *Gemini) Extract(ctx context.Context, systemPrompt, userPrompt, imageDataURI string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini: api key is empty")
	}

	mime, img, err := DecodeDataURI(imageDataURI)
	if err != nil {
		return "", fmt.Errorf("gemini: bad image: %w", err)
	}
	mime = DetectMIME(mime, img)

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text(userPrompt),
		&genai.Blob{MIMEType: mime, Data: img},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("gemini: empty response")
	}
	g.logger.Debug().Str("model", g.model).Int("chars", len(txt)).Msg("model answered")
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
