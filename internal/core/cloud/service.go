package cloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/google/uuid"
)

// allowedImageTypes are the MIME types accepted for artwork scans. The
// vision model reads images over a public URL, so anything stored here
// must be a format it can consume.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Service provides artwork image storage on top of a cloud provider.
type Service struct {
	provider Provider
	logger   *slog.Logger
	config   Config
}

// NewService creates a new image storage service.
func NewService(cfg config.CloudConfig, logger *slog.Logger) (*Service, error) {
	cloudConfig := Config{
		Provider: cfg.Provider,
		Azure: AzureConfig{
			StorageAccountName: cfg.Azure.StorageAccountName,
			StorageAccountKey:  cfg.Azure.StorageAccountKey,
			ConnectionString:   cfg.Azure.ConnectionString,
			ContainerName:      cfg.Azure.ContainerName,
			BaseURL:            cfg.Azure.BaseURL,
			UseHTTPS:           cfg.Azure.UseHTTPS,
		},
	}

	if err := ValidateConfig(cloudConfig); err != nil {
		return nil, fmt.Errorf("invalid cloud storage configuration: %w", err)
	}

	provider, err := NewProvider(cloudConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage provider: %w", err)
	}

	return &Service{
		provider: provider,
		logger:   logger.With("service", "cloud"),
		config:   cloudConfig,
	}, nil
}

// UploadArtworkImage stores a scan for an artwork and returns its public
// URL. The content type is validated before any bytes leave the process.
func (s *Service) UploadArtworkImage(ctx context.Context, artworkID uuid.UUID, fileName string, content io.Reader, contentType string, contentLength int64) (*ImageUploadResult, error) {
	if err := ValidateImageContentType(fileName, contentType); err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"artwork_id": artworkID.String(),
		"uploaded":   time.Now().UTC().Format(time.RFC3339),
	}

	tags := map[string]string{
		"source": "archive",
		"type":   "artwork-image",
	}

	uploadReq := &UploadImageRequest{
		FileName:      fileName,
		ContentType:   contentType,
		Content:       content,
		ContentLength: contentLength,
		Metadata:      metadata,
		Tags:          tags,
	}

	uploadResp, err := s.provider.UploadImage(ctx, uploadReq)
	if err != nil {
		s.logger.Error("Failed to upload artwork image",
			"artwork_id", artworkID,
			"file_name", fileName,
			"error", err)
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	s.logger.Info("Uploaded artwork image",
		"artwork_id", artworkID,
		"file_id", uploadResp.FileID,
		"size", uploadResp.Size,
		"public_url", uploadResp.PublicURL)

	return &ImageUploadResult{
		FileID:      uploadResp.FileID,
		PublicURL:   uploadResp.PublicURL,
		Size:        uploadResp.Size,
		ContentType: uploadResp.ContentType,
		UploadedAt:  uploadResp.UploadedAt,
	}, nil
}

// GetPublicImageURL generates the public URL for a stored image.
func (s *Service) GetPublicImageURL(ctx context.Context, fileID string) (string, error) {
	url, err := s.provider.GetImageURL(ctx, fileID)
	if err != nil {
		s.logger.Error("Failed to generate image URL", "file_id", fileID, "error", err)
		return "", fmt.Errorf("failed to get image URL: %w", err)
	}

	return url, nil
}

// GetTemporaryImageURL generates a presigned URL for restricted images.
func (s *Service) GetTemporaryImageURL(ctx context.Context, fileID string, expiration time.Duration) (string, error) {
	url, err := s.provider.GetPresignedURL(ctx, fileID, expiration)
	if err != nil {
		s.logger.Error("Failed to generate temporary image URL",
			"file_id", fileID,
			"expiration", expiration,
			"error", err)
		return "", fmt.Errorf("failed to get presigned URL: %w", err)
	}

	return url, nil
}

// DeleteImage removes a stored image.
func (s *Service) DeleteImage(ctx context.Context, fileID string) error {
	if err := s.provider.DeleteImage(ctx, fileID); err != nil {
		s.logger.Error("Failed to delete image", "file_id", fileID, "error", err)
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.logger.Info("Deleted artwork image", "file_id", fileID)
	return nil
}

// GetImageInfo retrieves metadata about a stored image.
func (s *Service) GetImageInfo(ctx context.Context, fileID string) (*ImageInfo, error) {
	info, err := s.provider.GetImageInfo(ctx, fileID)
	if err != nil {
		s.logger.Error("Failed to get image info", "file_id", fileID, "error", err)
		return nil, fmt.Errorf("failed to get image info: %w", err)
	}

	return info, nil
}

// ValidateImageContentType checks that an upload is an image format the
// archive accepts, falling back to the file extension when the declared
// content type is missing.
func ValidateImageContentType(fileName, contentType string) error {
	if contentType != "" {
		if allowedImageTypes[strings.ToLower(contentType)] {
			return nil
		}
		return &CloudError{
			Code:    "UNSUPPORTED_CONTENT_TYPE",
			Message: fmt.Sprintf("unsupported image content type: %s", contentType),
		}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return nil
	}

	return &CloudError{
		Code:    "UNSUPPORTED_CONTENT_TYPE",
		Message: fmt.Sprintf("cannot determine image type for file: %s", fileName),
	}
}

// ImageUploadResult contains the result of an artwork image upload.
type ImageUploadResult struct {
	FileID      string
	PublicURL   string
	Size        int64
	ContentType string
	UploadedAt  time.Time
}
