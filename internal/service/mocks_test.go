package service

import (
	"context"

	"menu-digitizer/internal/imagegen"
	"menu-digitizer/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockVisionModel is a mock implementation of vision.Model.
type MockVisionModel struct {
	mock.Mock
}

func (m *MockVisionModel) Name() string { return "mock" }

func (m *MockVisionModel) Extract(ctx context.Context, systemPrompt, userPrompt, imageDataURI string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, imageDataURI)
	return args.String(0), args.Error(1)
}

// MockImageModel is a mock implementation of imagegen.Model.
type MockImageModel struct {
	mock.Mock
}

func (m *MockImageModel) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(imagegen.Image), args.Error(1)
}

// MockExtractionService is a mock implementation of ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, in ExtractInput) (*model.ExtractionResponse, error) {
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

// MockExporter is a mock implementation of export.Exporter.
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, key string, doc []byte) (string, error) {
	args := m.Called(ctx, key, doc)
	return args.String(0), args.Error(1)
}
