package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menu-digitizer/internal/export"
	"menu-digitizer/internal/handler"
	"menu-digitizer/internal/imagegen"
	"menu-digitizer/internal/model"
	"menu-digitizer/internal/router"
	"menu-digitizer/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadMaxBytes = 1 << 20

const menuJSON = `Here is the menu:
{
  "categories": [
    {"category": "Starters", "items": [
      {"name": "Soup", "description": "Tomato", "price": 5, "addons": []},
      {"name": "Salad", "description": null, "price": 6.5, "addons": [{"name": "Feta", "price": 1}]}
    ]},
    {"category": "Mains", "items": [
      {"name": "Burger", "description": null, "price": 12, "addons": []}
    ]}
  ],
  "currency": "USD"
}`

type fakeVision struct{}

func (fakeVision) Name() string { return "fake" }

func (fakeVision) Extract(context.Context, string, string, string) (string, error) {
	return menuJSON, nil
}

type fakeImages struct{}

func (fakeImages) Generate(context.Context, string) (imagegen.Image, error) {
	return imagegen.Image{Base64: "iVBORw0KGgo=", MimeType: "image/png"}, nil
}

func setupTestServer(t *testing.T, exporter export.Exporter) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize services
	extractionService := service.NewExtractionService(fakeVision{}, uploadMaxBytes, logger)
	imageService := service.NewImageService(fakeImages{}, logger)
	sessionService := service.NewSessionService(extractionService, imageService, exporter, 0, logger)
	t.Cleanup(func() {
		sessionService.Close()
	})

	// Initialize handlers
	extractHandler := handler.NewExtractHandler(extractionService, imageService, uploadMaxBytes, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, uploadMaxBytes, logger)

	// Create router
	return router.New(extractHandler, sessionHandler, router.Options{
		AllowedOrigin:  "*",
		UploadMaxBytes: uploadMaxBytes,
	}, logger)
}

func imageForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", "menu.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func call(t *testing.T, server http.Handler, method, path string, body *bytes.Buffer, contentType string, out any) int {
	t.Helper()

	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		require.NoError(t, json.NewDecoder(w.Body).Decode(out), w.Body.String())
	}
	return w.Code
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestMenuAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := SetupTestStore(t)
	logger := zerolog.Nop()

	s3Exporter, err := export.NewS3Exporter(context.Background(), ts.Config, logger)
	require.NoError(t, err)
	exporter := export.NewFallbackExporter(s3Exporter, export.NewFileExporter(t.TempDir(), logger), "exports/", true, logger)
	server := setupTestServer(t, exporter)

	t.Run("POST /api/extract-menu returns the parsed menu", func(t *testing.T) {
		body, ct := imageForm(t)

		var resp model.ExtractionResponse
		code := call(t, server, http.MethodPost, "/api/extract-menu", body, ct, &resp)

		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Success)
		require.Len(t, resp.Data.Categories, 2)
		assert.Equal(t, "Salad", resp.Data.Categories[0].Items[1].Name)
		assert.Equal(t, "menu.png", resp.Metadata.FileName)
	})

	t.Run("session refine and export flow", func(t *testing.T) {
		var st model.SessionState
		require.Equal(t, http.StatusCreated, call(t, server, http.MethodPost, "/api/sessions", nil, "", &st))
		base := "/api/sessions/" + st.ID

		body, ct := imageForm(t)
		require.Equal(t, http.StatusOK, call(t, server, http.MethodPost, base+"/image", body, ct, &st))
		assert.Equal(t, model.StepProcess, st.Step)

		require.Equal(t, http.StatusOK, call(t, server, http.MethodPost, base+"/extract", nil, "", &st))
		require.NotNil(t, st.Extracted)

		// Drag Burger to the top of Starters.
		var overlay map[string]any
		code := call(t, server, http.MethodPost, base+"/drag/start",
			jsonBody(t, map[string]string{"activeId": "item-1-0"}), "application/json", &overlay)
		require.Equal(t, http.StatusOK, code)

		code = call(t, server, http.MethodPost, base+"/drag/end",
			jsonBody(t, map[string]string{"overId": "item-0-0"}), "application/json", &st)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, st.Extracted.Data.Categories[0].Items, 3)
		assert.Equal(t, "Burger", st.Extracted.Data.Categories[0].Items[0].Name)
		assert.Empty(t, st.Extracted.Data.Categories[1].Items)

		code = call(t, server, http.MethodPatch, base+"/categories/1",
			jsonBody(t, map[string]string{"category": "Specials"}), "application/json", &st)
		require.Equal(t, http.StatusOK, code)

		code = call(t, server, http.MethodPost, base+"/categories/0/items/0/image", nil, "", &st)
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, st.Extracted.Data.Categories[0].Items[0].Image)

		var result model.ExportResult
		require.Equal(t, http.StatusOK, call(t, server, http.MethodPost, base+"/export", nil, "", &result))
		require.True(t, strings.HasPrefix(result.Location, "s3://"+testBucket+"/exports/"+st.ID+"/"), result.Location)

		key := strings.TrimPrefix(result.Location, "s3://"+testBucket+"/")
		var exported model.ExtractedMenuData
		require.NoError(t, json.Unmarshal(ReadObject(t, ts, key), &exported))
		require.Len(t, exported.Categories, 2)
		assert.Equal(t, "Specials", exported.Categories[1].Category)
		assert.Equal(t, "Burger", exported.Categories[0].Items[0].Name)
		assert.NotNil(t, exported.Categories[0].Items[0].Image)

		require.Equal(t, http.StatusOK, call(t, server, http.MethodPost, base+"/reset", nil, "", &st))
		assert.Equal(t, "Soup", st.Extracted.Data.Categories[0].Items[0].Name)
	})
}
