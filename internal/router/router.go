package router

import (
	"net/http"

	"menu-digitizer/internal/handler"
	"menu-digitizer/internal/middleware"

	"github.com/rs/zerolog"
)

// multipartOverhead is the room left above the upload limit for form
// boundaries and text fields.
const multipartOverhead = 1 << 20

// Options configures cross-cutting router behaviour.
type Options struct {
	AllowedOrigin  string
	UploadMaxBytes int64
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	extractHandler *handler.ExtractHandler,
	sessionHandler *handler.SessionHandler,
	opts Options,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	health := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}
	mux.HandleFunc("GET /health", health)
	mux.HandleFunc("GET /api/health", health)

	// Stateless endpoints
	mux.HandleFunc("POST /api/extract-menu", extractHandler.ExtractMenu)
	mux.HandleFunc("POST /api/generate-image", extractHandler.GenerateImage)

	// Sessions
	mux.HandleFunc("POST /api/sessions", sessionHandler.Create)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("PUT /api/sessions/{id}/step", sessionHandler.SetStep)
	mux.HandleFunc("POST /api/sessions/{id}/image", sessionHandler.UploadImage)
	mux.HandleFunc("POST /api/sessions/{id}/extract", sessionHandler.Extract)
	mux.HandleFunc("POST /api/sessions/{id}/reset", sessionHandler.Reset)
	mux.HandleFunc("POST /api/sessions/{id}/export", sessionHandler.Export)

	// Categories and items
	mux.HandleFunc("POST /api/sessions/{id}/categories", sessionHandler.AddCategory)
	mux.HandleFunc("PATCH /api/sessions/{id}/categories/{c}", sessionHandler.RenameCategory)
	mux.HandleFunc("DELETE /api/sessions/{id}/categories/{c}", sessionHandler.DeleteCategory)
	mux.HandleFunc("POST /api/sessions/{id}/categories/{c}/items", sessionHandler.AddItem)
	mux.HandleFunc("PATCH /api/sessions/{id}/categories/{c}/items/{i}", sessionHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/sessions/{id}/categories/{c}/items/{i}", sessionHandler.DeleteItem)
	mux.HandleFunc("POST /api/sessions/{id}/categories/{c}/items/{i}/image", sessionHandler.GenerateItemImage)

	// Reordering
	mux.HandleFunc("POST /api/sessions/{id}/move", sessionHandler.Move)
	mux.HandleFunc("POST /api/sessions/{id}/drag/start", sessionHandler.DragStart)
	mux.HandleFunc("POST /api/sessions/{id}/drag/end", sessionHandler.DragEnd)
	mux.HandleFunc("POST /api/sessions/{id}/drag/cancel", sessionHandler.DragCancel)

	var bodyLimit int64
	if opts.UploadMaxBytes > 0 {
		bodyLimit = opts.UploadMaxBytes + multipartOverhead
	}

	// Apply middleware in order: Recovery -> Logging -> CORS -> MaxBodySize
	var h http.Handler = mux
	h = middleware.MaxBodySize(bodyLimit)(h)
	h = middleware.CORS(opts.AllowedOrigin)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
