package blob

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azblobblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// DefaultAzureContainer is used when no container is configured.
const DefaultAzureContainer = "landing"

// AzureConfig authenticates with an account key.
type AzureConfig struct {
	AccountName string `json:"account_name,omitempty" toml:"storage_account_name"`
	AccountKey  string `json:"account_key,omitempty" toml:"storage_account_key"`
	Container   string `json:"container,omitempty" toml:"container_name"`
	// Endpoint overrides https://{account}.blob.core.windows.net, e.g. for Azurite.
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint"`
}

// AzureStore uploads block blobs.
type AzureStore struct {
	client    *azblob.Client
	container string
}

// NewAzureStore creates a client from an account name and key.
func NewAzureStore(cfg AzureConfig) (*AzureStore, error) {
	if cfg.AccountName == "" || cfg.AccountKey == "" {
		return nil, errors.New("azure account name and key are required")
	}
	if cfg.Container == "" {
		cfg.Container = DefaultAzureContainer
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}
	return &AzureStore{client: client, container: cfg.Container}, nil
}

// Upload overwrites the blob at path.
func (s *AzureStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	contentType = DetectContentType(data, contentType)
	_, err := s.client.UploadBuffer(ctx, s.container, path, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &azblobblob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", &UploadError{Backend: BackendAzure, Path: path, Err: err}
	}
	log.Printf("[BLOB] Uploaded %s/%s (%d bytes)", s.container, path, len(data))
	return s.container + "/" + path, nil
}
