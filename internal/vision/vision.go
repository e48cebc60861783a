// Package vision talks to the models that read text off menu photos.
package vision

import (
	"context"
	"strings"
	"time"
)

// Model turns a menu photo into free text. The text is expected to be the
// JSON document described by the system prompt but callers must not rely
// on it.
type Model interface {
	Name() string
	Extract(ctx context.Context, systemPrompt, userPrompt, imageDataURI string) (string, error)
}

// ExtractionSystemPrompt instructs the model to answer with menu JSON only.
const ExtractionSystemPrompt = `You are a JSON-only menu extraction API. Your response must be ONLY a valid JSON object with no other text, markdown, or explanation.

RESPONSE FORMAT (respond with ONLY this JSON structure, nothing else):
{"categories":[{"category":"Category Name","items":[{"name":"Item Name","description":"Description or null","price":12.99,"addons":[{"name":"Addon","price":2.50}]}]}],"currency":"USD"}

RULES:
- Output ONLY valid JSON, no markdown, no explanation, no text before or after
- Extract ALL menu items grouped by category
- Price must be a number without currency symbol
- Use null for missing price or description
- Addons array can be empty []
- Start your response with { and end with }

IMPORTANT: Do NOT include any text outside the JSON. Do NOT use markdown code blocks. Just output the raw JSON object.`

// DefaultInstructions is sent when the caller gives no extra instructions.
const DefaultInstructions = "Extract all food items with prices, descriptions, and any available addons or extras"

const basePrompt = "Extract the menu from this image and respond with the JSON object only."

// UserPrompt builds the per-request prompt, appending the caller's
// instructions when present.
func UserPrompt(additionalText string) string {
	extra := strings.TrimSpace(additionalText)
	if extra == "" {
		extra = DefaultInstructions
	}
	return basePrompt + "\n\nAdditional instructions: " + extra
}

type timeoutModel struct {
	Model
	timeout time.Duration
}

// WithTimeout bounds every Extract call on m to d. A non-positive d
// returns m unchanged.
func WithTimeout(m Model, d time.Duration) Model {
	if d <= 0 {
		return m
	}
	return &timeoutModel{Model: m, timeout: d}
}

func (t *timeoutModel) Extract(ctx context.Context, systemPrompt, userPrompt, imageDataURI string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Model.Extract(ctx, systemPrompt, userPrompt, imageDataURI)
}
