package handler

import (
	"encoding/json"
	"net/http"

	"menu-digitizer/internal/model"
	"menu-digitizer/internal/service"

	"github.com/rs/zerolog"
)

// ExtractHandler serves the stateless extraction and image endpoints.
type ExtractHandler struct {
	extraction service.ExtractionService
	images     service.ImageService
	maxBytes   int64
	logger     zerolog.Logger
}

// NewExtractHandler creates a new extraction handler.
func NewExtractHandler(
	extraction service.ExtractionService,
	images service.ImageService,
	maxBytes int64,
	logger zerolog.Logger,
) *ExtractHandler {
	return &ExtractHandler{
		extraction: extraction,
		images:     images,
		maxBytes:   maxBytes,
		logger:     logger.With().Str("handler", "extract").Logger(),
	}
}

// ExtractMenu handles POST /api/extract-menu requests.
func (h *ExtractHandler) ExtractMenu(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(r, h.maxBytes)
	if err != nil {
		writeServiceError(w, err, "invalid multipart request", h.logger)
		return
	}

	resp, err := h.extraction.Extract(r.Context(), service.ExtractInput{
		Image:          img.Data,
		FileName:       img.FileName,
		MimeType:       img.MimeType,
		AdditionalText: r.FormValue("additionalText"),
	})
	if err != nil {
		writeServiceError(w, err, model.ErrModelUnavailable.Message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GenerateImage handles POST /api/generate-image requests.
func (h *ExtractHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req model.ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.images.Generate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, model.ErrImageGeneration.Message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
