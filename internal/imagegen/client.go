// Package imagegen generates menu item pictures through an
// OpenAI-compatible images API.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Image is a generated picture as base64 with its mime type.
type Image struct {
	Base64   string
	MimeType string
}

// Model generates one image from a text prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (Image, error)
}

// Config holds the images API settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Size    string
	Timeout time.Duration
}

// Client calls POST {BaseURL}/images/generations.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger zerolog.Logger
}

// NewClient creates an images API client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "imagegen").Logger(),
	}
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate returns the first image of the response. An answer without
// image data yields an Image with an empty Base64 field.
func (c *Client) Generate(ctx context.Context, prompt string) (Image, error) {
	if c.cfg.APIKey == "" {
		return Image{}, errors.New("imagegen: api key is empty")
	}

	body := generationRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		N:      1,
		Size:   c.cfg.Size,
	}
	// dall-e models return URLs unless asked otherwise; gpt-image models
	// always return base64 and reject the parameter.
	if strings.HasPrefix(c.cfg.Model, "dall-e") {
		body.ResponseFormat = "b64_json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Image{}, fmt.Errorf("imagegen: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return Image{}, fmt.Errorf("imagegen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("imagegen: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Image{}, fmt.Errorf("imagegen %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Image{}, fmt.Errorf("imagegen: decode response: %w", err)
	}

	c.logger.Debug().
		Str("model", c.cfg.Model).
		Dur("duration", time.Since(start)).
		Int("images", len(out.Data)).
		Msg("image generated")

	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return Image{}, nil
	}
	b64 := out.Data[0].B64JSON
	return Image{Base64: b64, MimeType: sniffMIME(b64)}, nil
}

// sniffMIME decodes just enough of the payload to detect its type.
func sniffMIME(b64 string) string {
	head := b64
	if len(head) > 64 {
		head = head[:64]
	}
	raw, _ := base64.StdEncoding.DecodeString(head)
	if len(raw) == 0 {
		return "image/png"
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "image/png"
	}
	return mime
}
