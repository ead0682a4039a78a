package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxDrawingSize is 10MB in bytes
	MaxDrawingSize = 10 * 1024 * 1024
)

// AllowedDrawingFormats are the file extensions accepted for design drawings.
var AllowedDrawingFormats = []string{".png", ".pdf"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateDrawingFile validates the uploaded drawing's format and size
func ValidateDrawingFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxDrawingSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxDrawingSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedDrawingFormats {
		if ext == allowed {
			return nil
		}
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedDrawingFormats, ", ")),
	}
}
