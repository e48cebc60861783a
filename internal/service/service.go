package service

import (
	"context"

	"menu-digitizer/internal/model"
)

// ExtractInput is an uploaded menu photo plus optional instructions.
type ExtractInput struct {
	Image          []byte
	FileName       string
	MimeType       string
	AdditionalText string
}

// ExtractionService turns menu photos into structured menu data.
type ExtractionService interface {
	// Extract validates the image, asks the vision model for the menu and
	// recovers structured data from its answer. Unparseable answers fall
	// back to the line parser and never fail the request.
	Extract(ctx context.Context, in ExtractInput) (*model.ExtractionResponse, error)
}

// ImageService generates pictures of menu items.
type ImageService interface {
	Generate(ctx context.Context, req *model.ImageRequest) (*model.ImageResponse, error)
}

// SessionService manages in-memory refinement sessions.
type SessionService interface {
	Create(ctx context.Context) (*model.SessionState, error)
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Delete(ctx context.Context, id string) error

	SetStep(ctx context.Context, id string, step model.Step) (*model.SessionState, error)
	UploadImage(ctx context.Context, id string, img *model.UploadedImage) (*model.SessionState, error)
	Extract(ctx context.Context, id, additionalText string) (*model.SessionState, error)
	Reset(ctx context.Context, id string) (*model.SessionState, error)

	AddCategory(ctx context.Context, id string) (*model.SessionState, error)
	RenameCategory(ctx context.Context, id string, c int, name string) (*model.SessionState, error)
	DeleteCategory(ctx context.Context, id string, c int) (*model.SessionState, error)

	AddItem(ctx context.Context, id string, c int) (*model.SessionState, error)
	UpdateItem(ctx context.Context, id string, c, i int, field string, value any) (*model.SessionState, error)
	DeleteItem(ctx context.Context, id string, c, i int) (*model.SessionState, error)
	GenerateItemImage(ctx context.Context, id string, c, i int, additionalPrompt *string) (*model.SessionState, error)

	Move(ctx context.Context, id string, from, to model.ItemRef) (*model.SessionState, error)
	BeginDrag(ctx context.Context, id, activeID string) (*model.MenuItem, error)
	EndDrag(ctx context.Context, id, overID string) (*model.SessionState, error)
	CancelDrag(ctx context.Context, id string) (*model.SessionState, error)

	Export(ctx context.Context, id string) (*model.ExportResult, error)

	// Close stops background eviction and drops all sessions.
	Close() error
}
