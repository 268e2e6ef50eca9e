package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImageContentType(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		wantErr     bool
	}{
		{"jpeg", "scan.jpg", "image/jpeg", false},
		{"png", "scan.png", "image/png", false},
		{"webp", "scan.webp", "image/webp", false},
		{"uppercase content type", "scan.jpg", "IMAGE/JPEG", false},
		{"gif rejected", "scan.gif", "image/gif", true},
		{"pdf rejected", "doc.pdf", "application/pdf", true},
		{"no content type with jpg extension", "scan.jpg", "", false},
		{"no content type with jpeg extension", "scan.JPEG", "", false},
		{"no content type with webp extension", "scan.webp", "", false},
		{"no content type with tiff extension", "scan.tiff", "", true},
		{"no content type no extension", "scan", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageContentType(tt.fileName, tt.contentType)
			if tt.wantErr {
				require.Error(t, err)
				var cloudErr *CloudError
				require.ErrorAs(t, err, &cloudErr)
				assert.Equal(t, "UNSUPPORTED_CONTENT_TYPE", cloudErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAzureConfig(t *testing.T) {
	assert.NoError(t, ValidateAzureConfig(AzureConfig{
		ConnectionString: "UseDevelopmentStorage=true",
		ContainerName:    "artworks",
	}))

	assert.NoError(t, ValidateAzureConfig(AzureConfig{
		StorageAccountName: "archive",
		StorageAccountKey:  "secret",
		ContainerName:      "artworks",
	}))

	assert.Error(t, ValidateAzureConfig(AzureConfig{ContainerName: "artworks"}))
	assert.Error(t, ValidateAzureConfig(AzureConfig{
		StorageAccountName: "archive",
		ContainerName:      "artworks",
	}))
	assert.Error(t, ValidateAzureConfig(AzureConfig{
		ConnectionString: "UseDevelopmentStorage=true",
	}))
}

func TestNewProviderRejectsUnknownProvider(t *testing.T) {
	_, err := NewProvider(Config{Provider: "aws"})

	require.Error(t, err)
	var cloudErr *CloudError
	require.ErrorAs(t, err, &cloudErr)
	assert.Equal(t, "INVALID_PROVIDER", cloudErr.Code)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "jpg", fileExtension("scan.jpg"))
	assert.Equal(t, "webp", fileExtension("archive.scan.webp"))
	assert.Empty(t, fileExtension("scan"))
	assert.Empty(t, fileExtension(""))
}
