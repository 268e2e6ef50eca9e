package cloud

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/google/uuid"
)

// AzureProvider implements the Provider interface for Azure Blob Storage.
type AzureProvider struct {
	client        *azblob.Client
	containerName string
	config        AzureConfig
}

// NewAzureProvider creates a new Azure Blob Storage provider.
func NewAzureProvider(config AzureConfig) (*AzureProvider, error) {
	if err := ValidateAzureConfig(config); err != nil {
		return nil, err
	}

	var client *azblob.Client
	var err error

	if config.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(config.ConnectionString, nil)
	} else {
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", config.StorageAccountName)
		credential, credErr := azblob.NewSharedKeyCredential(config.StorageAccountName, config.StorageAccountKey)
		if credErr != nil {
			return nil, &CloudError{
				Code:    "AZURE_CREDENTIAL_ERROR",
				Message: "failed to create Azure credentials",
				Cause:   credErr,
			}
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	}

	if err != nil {
		return nil, &CloudError{
			Code:    "AZURE_CLIENT_ERROR",
			Message: "failed to create Azure Blob Storage client",
			Cause:   err,
		}
	}

	if !config.UseHTTPS && config.ConnectionString == "" {
		config.UseHTTPS = true
	}

	return &AzureProvider{
		client:        client,
		containerName: config.ContainerName,
		config:        config,
	}, nil
}

// UploadImage uploads an artwork image to Azure Blob Storage.
func (p *AzureProvider) UploadImage(ctx context.Context, req *UploadImageRequest) (*UploadImageResponse, error) {
	if req == nil {
		return nil, &CloudError{
			Code:    "INVALID_REQUEST",
			Message: "upload request cannot be nil",
		}
	}

	fileID := req.FileID
	if fileID == "" {
		fileID = uuid.New().String()
		if ext := fileExtension(req.FileName); ext != "" {
			fileID = fileID + "." + ext
		}
	}

	metadata := make(map[string]*string)
	if req.FileName != "" {
		metadata["filename"] = to.Ptr(req.FileName)
	}
	for k, v := range req.Metadata {
		metadata[k] = to.Ptr(v)
	}

	tags := make(map[string]string)
	for k, v := range req.Tags {
		tags[k] = v
	}

	uploadOptions := &azblob.UploadStreamOptions{
		Metadata: metadata,
		Tags:     tags,
	}

	if req.ContentType != "" {
		uploadOptions.HTTPHeaders = &blob.HTTPHeaders{
			BlobContentType: to.Ptr(req.ContentType),
		}
	}

	uploadResponse, err := p.client.UploadStream(ctx, p.containerName, fileID, req.Content, uploadOptions)
	if err != nil {
		return nil, &CloudError{
			Code:    "UPLOAD_FAILED",
			Message: "failed to upload image to Azure Blob Storage",
			Cause:   err,
		}
	}

	response := &UploadImageResponse{
		FileID:      fileID,
		PublicURL:   p.generatePublicURL(fileID),
		ContentType: req.ContentType,
		UploadedAt:  time.Now().UTC(),
	}

	if uploadResponse.ETag != nil {
		response.ETag = string(*uploadResponse.ETag)
	}

	if req.ContentLength > 0 {
		response.Size = req.ContentLength
	}

	return response, nil
}

// GetImageURL generates a public URL for accessing an image.
func (p *AzureProvider) GetImageURL(ctx context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", ErrInvalidFileID
	}

	return p.generatePublicURL(fileID), nil
}

// GetPresignedURL generates a temporary presigned URL for image access.
func (p *AzureProvider) GetPresignedURL(ctx context.Context, fileID string, expiration time.Duration) (string, error) {
	if fileID == "" {
		return "", ErrInvalidFileID
	}

	_, err := p.client.ServiceClient().NewContainerClient(p.containerName).NewBlobClient(fileID).GetProperties(ctx, nil)
	if err != nil {
		return "", &CloudError{
			Code:    "IMAGE_NOT_FOUND",
			Message: "image not found in Azure Blob Storage",
			Cause:   err,
		}
	}

	expiryTime := time.Now().UTC().Add(expiration)

	sasQueryParams, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		ExpiryTime:    expiryTime,
		ContainerName: p.containerName,
		BlobName:      fileID,
		Permissions:   to.Ptr(sas.BlobPermissions{Read: true}).String(),
	}.SignWithSharedKey(p.getSharedKeyCredential())

	if err != nil {
		return "", &CloudError{
			Code:    "SAS_GENERATION_FAILED",
			Message: "failed to generate SAS token",
			Cause:   err,
		}
	}

	return p.generatePublicURL(fileID) + "?" + sasQueryParams.Encode(), nil
}

// DeleteImage removes an image from Azure Blob Storage.
func (p *AzureProvider) DeleteImage(ctx context.Context, fileID string) error {
	if fileID == "" {
		return ErrInvalidFileID
	}

	blobClient := p.client.ServiceClient().NewContainerClient(p.containerName).NewBlobClient(fileID)
	_, err := blobClient.Delete(ctx, nil)
	if err != nil {
		return &CloudError{
			Code:    "DELETE_FAILED",
			Message: "failed to delete image from Azure Blob Storage",
			Cause:   err,
		}
	}

	return nil
}

// GetImageInfo retrieves metadata about a stored image.
func (p *AzureProvider) GetImageInfo(ctx context.Context, fileID string) (*ImageInfo, error) {
	if fileID == "" {
		return nil, ErrInvalidFileID
	}

	blobClient := p.client.ServiceClient().NewContainerClient(p.containerName).NewBlobClient(fileID)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, &CloudError{
			Code:    "IMAGE_NOT_FOUND",
			Message: "image not found in Azure Blob Storage",
			Cause:   err,
		}
	}

	info := &ImageInfo{
		FileID:    fileID,
		PublicURL: p.generatePublicURL(fileID),
		Metadata:  make(map[string]string),
	}

	if props.ContentLength != nil {
		info.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.LastModified != nil {
		info.LastModified = *props.LastModified
	}
	if props.ETag != nil {
		info.ETag = string(*props.ETag)
	}

	for k, v := range props.Metadata {
		if v != nil {
			if k == "filename" {
				info.FileName = *v
			}
			info.Metadata[k] = *v
		}
	}

	return info, nil
}

// generatePublicURL creates a public URL for the blob
func (p *AzureProvider) generatePublicURL(fileID string) string {
	if p.config.BaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", p.config.BaseURL, p.containerName, fileID)
	}

	protocol := "https"
	if !p.config.UseHTTPS {
		protocol = "http"
	}

	return fmt.Sprintf("%s://%s.blob.core.windows.net/%s/%s",
		protocol, p.config.StorageAccountName, p.containerName, url.QueryEscape(fileID))
}

func (p *AzureProvider) getSharedKeyCredential() *azblob.SharedKeyCredential {
	credential, _ := azblob.NewSharedKeyCredential(p.config.StorageAccountName, p.config.StorageAccountKey)
	return credential
}

func fileExtension(fileName string) string {
	if fileName == "" || !strings.Contains(fileName, ".") {
		return ""
	}
	parts := strings.Split(fileName, ".")
	return parts[len(parts)-1]
}
