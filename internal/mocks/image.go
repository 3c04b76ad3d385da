package mocks

import (
	"context"
	"io"

	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockImageService is a mock implementation of the ImageService interface
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadRecipeImage(ctx context.Context, recipeID int64, body io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, recipeID, body, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockImageService) DeleteImage(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var (
	_ service.IImageService = (*MockImageService)(nil)
	_ service.IAuthService  = (*MockAuthService)(nil)
)
