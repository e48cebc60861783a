package handler

import (
	"context"

	"menu-digitizer/internal/model"
	"menu-digitizer/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockExtractionService is a mock implementation of ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, in service.ExtractInput) (*model.ExtractionResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionResponse), args.Error(1)
}

// MockImageService is a mock implementation of ImageService.
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Generate(ctx context.Context, req *model.ImageRequest) (*model.ImageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageResponse), args.Error(1)
}

// MockSessionService is a mock implementation of SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) state(args mock.Arguments) (*model.SessionState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionState), args.Error(1)
}

func (m *MockSessionService) Create(ctx context.Context) (*model.SessionState, error) {
	return m.state(m.Called(ctx))
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockSessionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionService) SetStep(ctx context.Context, id string, step model.Step) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, step))
}

func (m *MockSessionService) UploadImage(ctx context.Context, id string, img *model.UploadedImage) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, img))
}

func (m *MockSessionService) Extract(ctx context.Context, id, additionalText string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, additionalText))
}

func (m *MockSessionService) Reset(ctx context.Context, id string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockSessionService) AddCategory(ctx context.Context, id string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockSessionService) RenameCategory(ctx context.Context, id string, c int, name string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c, name))
}

func (m *MockSessionService) DeleteCategory(ctx context.Context, id string, c int) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c))
}

func (m *MockSessionService) AddItem(ctx context.Context, id string, c int) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c))
}

func (m *MockSessionService) UpdateItem(ctx context.Context, id string, c, i int, field string, value any) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c, i, field, value))
}

func (m *MockSessionService) DeleteItem(ctx context.Context, id string, c, i int) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c, i))
}

func (m *MockSessionService) GenerateItemImage(ctx context.Context, id string, c, i int, additionalPrompt *string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, c, i, additionalPrompt))
}

func (m *MockSessionService) Move(ctx context.Context, id string, from, to model.ItemRef) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, from, to))
}

func (m *MockSessionService) BeginDrag(ctx context.Context, id, activeID string) (*model.MenuItem, error) {
	args := m.Called(ctx, id, activeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockSessionService) EndDrag(ctx context.Context, id, overID string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id, overID))
}

func (m *MockSessionService) CancelDrag(ctx context.Context, id string) (*model.SessionState, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockSessionService) Export(ctx context.Context, id string) (*model.ExportResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExportResult), args.Error(1)
}

func (m *MockSessionService) Close() error {
	return m.Called().Error(0)
}
