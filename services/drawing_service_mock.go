package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/steelcraft/steelcraft-erp-api/utils"
)

// MockDrawingService is a mock implementation of DrawingService for testing
type MockDrawingService struct {
	drawings map[string]bool // set of uploaded drawing keys
	mu       sync.RWMutex

	// UploadError, when set, is returned by every UploadDrawing call
	UploadError error
}

// NewMockDrawingService creates a new mock drawing service
func NewMockDrawingService() *MockDrawingService {
	return &MockDrawingService{
		drawings: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global drawing service instance
func (m *MockDrawingService) SetAsMockForTesting() {
	SetDrawingService(m)
}

// UploadDrawing simulates validating and uploading a drawing
func (m *MockDrawingService) UploadDrawing(fileHeader *multipart.FileHeader) (string, error) {
	if m.UploadError != nil {
		return "", m.UploadError
	}

	// Run the same validation as the real service
	if err := utils.ValidateDrawingFile(fileHeader); err != nil {
		return "", err
	}

	key := fmt.Sprintf("drawings/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.drawings[key] = true
	m.mu.Unlock()

	return key, nil
}

// GetDrawingURL simulates generating a drawing URL
func (m *MockDrawingService) GetDrawingURL(drawingKey string) (string, error) {
	if drawingKey == "" {
		return "", nil
	}
	return fmt.Sprintf("https://mock-bucket.s3.amazonaws.com/%s?presigned=true", drawingKey), nil
}

// DeleteDrawing simulates deleting a drawing
func (m *MockDrawingService) DeleteDrawing(drawingKey string) error {
	m.mu.Lock()
	delete(m.drawings, drawingKey)
	m.mu.Unlock()
	return nil
}

// HasDrawing reports whether a key was uploaded to the mock
func (m *MockDrawingService) HasDrawing(drawingKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drawings[drawingKey]
}
