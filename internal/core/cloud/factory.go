package cloud

import (
	"fmt"
	"strings"
)

// NewProvider creates a storage provider based on the configuration.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "azure":
		return NewAzureProvider(config.Azure)
	default:
		return nil, &CloudError{
			Code:    "INVALID_PROVIDER",
			Message: fmt.Sprintf("unsupported cloud provider: %s", config.Provider),
		}
	}
}

// ValidateConfig validates the cloud provider configuration.
func ValidateConfig(config Config) error {
	if config.Provider == "" {
		return &CloudError{
			Code:    "MISSING_PROVIDER",
			Message: "cloud provider must be specified",
		}
	}

	switch strings.ToLower(config.Provider) {
	case "azure":
		return ValidateAzureConfig(config.Azure)
	default:
		return &CloudError{
			Code:    "INVALID_PROVIDER",
			Message: fmt.Sprintf("unsupported cloud provider: %s", config.Provider),
		}
	}
}

// ValidateAzureConfig validates Azure Blob Storage configuration.
func ValidateAzureConfig(config AzureConfig) error {
	if config.ConnectionString == "" {
		if config.StorageAccountName == "" {
			return &CloudError{
				Code:    "MISSING_AZURE_ACCOUNT",
				Message: "Azure storage account name or connection string is required",
			}
		}
		if config.StorageAccountKey == "" {
			return &CloudError{
				Code:    "MISSING_AZURE_KEY",
				Message: "Azure storage account key is required when not using connection string",
			}
		}
	}

	if config.ContainerName == "" {
		return &CloudError{
			Code:    "MISSING_AZURE_CONTAINER",
			Message: "Azure blob container name is required",
		}
	}

	return nil
}
