package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"menu-digitizer/internal/model"
	"menu-digitizer/internal/service"

	"github.com/rs/zerolog"
)

// SessionHandler handles refinement session requests.
type SessionHandler struct {
	service  service.SessionService
	maxBytes int64
	logger   zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service service.SessionService, maxBytes int64, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger.With().Str("handler", "session").Logger(),
	}
}

type stepRequest struct {
	Step model.Step `json:"step"`
}

type extractRequest struct {
	AdditionalText string `json:"additionalText"`
}

type renameRequest struct {
	Category string `json:"category"`
}

type itemImageRequest struct {
	AdditionalPrompt *string `json:"additionalPrompt"`
}

type dragStartRequest struct {
	ActiveID string `json:"activeId"`
}

type dragEndRequest struct {
	OverID string `json:"overId"`
}

type dragStartResponse struct {
	Overlay *model.MenuItem `json:"overlay"`
}

// decode reads an optional JSON body into v. An empty body leaves v unchanged.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// respond writes the session state or the mapped error.
func (h *SessionHandler) respond(w http.ResponseWriter, st *model.SessionState, err error, status int) {
	if err != nil {
		writeServiceError(w, err, "failed to update session", h.logger)
		return
	}
	writeJSON(w, status, st)
}

// categoryIndex and itemIndex parse the {c} and {i} path values.
func (h *SessionHandler) categoryIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	c, ok := pathIndex(r, "c")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrInvalidIndex.Message, h.logger)
	}
	return c, ok
}

func (h *SessionHandler) itemIndex(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	c, ok := h.categoryIndex(w, r)
	if !ok {
		return 0, 0, false
	}
	i, ok := pathIndex(r, "i")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrInvalidIndex.Message, h.logger)
	}
	return c, i, ok
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Create(r.Context())
	h.respond(w, st, err, http.StatusCreated)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context(), r.PathValue("id"))
	h.respond(w, st, err, http.StatusOK)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "failed to delete session", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStep handles PUT /api/sessions/{id}/step.
func (h *SessionHandler) SetStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.SetStep(r.Context(), r.PathValue("id"), req.Step)
	h.respond(w, st, err, http.StatusOK)
}

// UploadImage handles POST /api/sessions/{id}/image.
func (h *SessionHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	img, err := readImage(r, h.maxBytes)
	if err != nil {
		writeServiceError(w, err, "failed to read image", h.logger)
		return
	}
	st, err := h.service.UploadImage(r.Context(), r.PathValue("id"), img)
	h.respond(w, st, err, http.StatusOK)
}

// Extract handles POST /api/sessions/{id}/extract.
func (h *SessionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.Extract(r.Context(), r.PathValue("id"), req.AdditionalText)
	if err != nil {
		writeServiceError(w, err, model.ErrModelUnavailable.Message, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Reset handles POST /api/sessions/{id}/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Reset(r.Context(), r.PathValue("id"))
	h.respond(w, st, err, http.StatusOK)
}

// AddCategory handles POST /api/sessions/{id}/categories.
func (h *SessionHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.AddCategory(r.Context(), r.PathValue("id"))
	h.respond(w, st, err, http.StatusCreated)
}

// RenameCategory handles PATCH /api/sessions/{id}/categories/{c}.
func (h *SessionHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}
	var req renameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.RenameCategory(r.Context(), r.PathValue("id"), c, req.Category)
	h.respond(w, st, err, http.StatusOK)
}

// DeleteCategory handles DELETE /api/sessions/{id}/categories/{c}.
func (h *SessionHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}
	st, err := h.service.DeleteCategory(r.Context(), r.PathValue("id"), c)
	h.respond(w, st, err, http.StatusOK)
}

// AddItem handles POST /api/sessions/{id}/categories/{c}/items.
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}
	st, err := h.service.AddItem(r.Context(), r.PathValue("id"), c)
	h.respond(w, st, err, http.StatusCreated)
}

// UpdateItem handles PATCH /api/sessions/{id}/categories/{c}/items/{i}.
func (h *SessionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, i, ok := h.itemIndex(w, r)
	if !ok {
		return
	}
	var req model.ItemUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.UpdateItem(r.Context(), r.PathValue("id"), c, i, req.Field, req.Value)
	h.respond(w, st, err, http.StatusOK)
}

// DeleteItem handles DELETE /api/sessions/{id}/categories/{c}/items/{i}.
func (h *SessionHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	c, i, ok := h.itemIndex(w, r)
	if !ok {
		return
	}
	st, err := h.service.DeleteItem(r.Context(), r.PathValue("id"), c, i)
	h.respond(w, st, err, http.StatusOK)
}

// GenerateItemImage handles POST /api/sessions/{id}/categories/{c}/items/{i}/image.
func (h *SessionHandler) GenerateItemImage(w http.ResponseWriter, r *http.Request) {
	c, i, ok := h.itemIndex(w, r)
	if !ok {
		return
	}
	var req itemImageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.GenerateItemImage(r.Context(), r.PathValue("id"), c, i, req.AdditionalPrompt)
	if err != nil {
		writeServiceError(w, err, model.ErrImageGeneration.Message, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Move handles POST /api/sessions/{id}/move.
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req model.MoveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.Move(r.Context(), r.PathValue("id"), req.From, req.To)
	h.respond(w, st, err, http.StatusOK)
}

// DragStart handles POST /api/sessions/{id}/drag/start.
func (h *SessionHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	overlay, err := h.service.BeginDrag(r.Context(), r.PathValue("id"), req.ActiveID)
	if err != nil {
		writeServiceError(w, err, "failed to start drag", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dragStartResponse{Overlay: overlay})
}

// DragEnd handles POST /api/sessions/{id}/drag/end.
func (h *SessionHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	var req dragEndRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	st, err := h.service.EndDrag(r.Context(), r.PathValue("id"), req.OverID)
	h.respond(w, st, err, http.StatusOK)
}

// DragCancel handles POST /api/sessions/{id}/drag/cancel.
func (h *SessionHandler) DragCancel(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.CancelDrag(r.Context(), r.PathValue("id"))
	h.respond(w, st, err, http.StatusOK)
}

// Export handles POST /api/sessions/{id}/export.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, model.ErrExportFailed.Message, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
