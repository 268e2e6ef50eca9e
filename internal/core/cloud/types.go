package cloud

import (
	"context"
	"io"
	"time"
)

// Provider is the storage backend for artwork image files.
type Provider interface {
	// UploadImage stores an image and returns its file ID and public URL.
	UploadImage(ctx context.Context, req *UploadImageRequest) (*UploadImageResponse, error)

	// GetImageURL generates a public URL for an image.
	GetImageURL(ctx context.Context, fileID string) (string, error)

	// GetPresignedURL generates a temporary presigned URL for an image.
	GetPresignedURL(ctx context.Context, fileID string, expiration time.Duration) (string, error)

	// DeleteImage removes an image from storage.
	DeleteImage(ctx context.Context, fileID string) error

	// GetImageInfo retrieves metadata about a stored image.
	GetImageInfo(ctx context.Context, fileID string) (*ImageInfo, error)
}

// UploadImageRequest contains parameters for an image upload.
type UploadImageRequest struct {
	// FileID is the unique identifier for the image (auto-generated if empty)
	FileID string

	// FileName is the original filename
	FileName string

	// ContentType is the MIME type of the image
	ContentType string

	// Content is the image data to upload
	Content io.Reader

	// ContentLength is the size of the image in bytes (-1 if unknown)
	ContentLength int64

	// Metadata contains custom metadata for the image
	Metadata map[string]string

	// Tags are used for organization
	Tags map[string]string
}

// UploadImageResponse contains the result of an image upload.
type UploadImageResponse struct {
	FileID      string
	PublicURL   string
	Size        int64
	ContentType string
	ETag        string
	UploadedAt  time.Time
}

// ImageInfo contains metadata about a stored image.
type ImageInfo struct {
	FileID       string
	FileName     string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	PublicURL    string
	Metadata     map[string]string
}

// Config contains cloud provider configuration.
type Config struct {
	// Provider specifies which cloud provider to use
	Provider string

	// Azure Blob Storage configuration
	Azure AzureConfig
}

// AzureConfig contains Azure Blob Storage specific configuration.
type AzureConfig struct {
	// StorageAccountName is the Azure storage account name
	StorageAccountName string

	// StorageAccountKey is the Azure storage account key
	StorageAccountKey string

	// ConnectionString is the full connection string (alternative to name/key)
	ConnectionString string

	// ContainerName is the blob container name
	ContainerName string

	// BaseURL is the base URL for blob access (optional, auto-generated if empty)
	BaseURL string

	// UseHTTPS determines whether to use HTTPS for blob URLs
	UseHTTPS bool
}

// Error types for cloud operations
var (
	ErrImageNotFound   = &CloudError{Code: "IMAGE_NOT_FOUND", Message: "Image not found"}
	ErrInvalidFileID   = &CloudError{Code: "INVALID_FILE_ID", Message: "Invalid file ID"}
	ErrInvalidConfig   = &CloudError{Code: "INVALID_CONFIG", Message: "Invalid configuration"}
	ErrUnsupportedType = &CloudError{Code: "UNSUPPORTED_CONTENT_TYPE", Message: "Unsupported image content type"}
)

// CloudError represents a cloud storage error.
type CloudError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CloudError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CloudError) Unwrap() error {
	return e.Cause
}
