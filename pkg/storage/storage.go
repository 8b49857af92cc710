// Package storage stores report PDFs and extraction reference images in
// Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/assay/pkg/lifecycle"
)

// System reads and writes blobs in one container.
type System interface {
	// Start creates the container on startup if it does not exist.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	// Download streams a blob; the caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// ReadAll downloads a blob into memory.
	ReadAll(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Ready reports whether the container was confirmed at startup.
	Ready() bool
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
	ready     atomic.Bool
}

// New builds the blob client. A connection string takes precedence over a
// service URL with default Azure credentials.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: int32(cfg.MaxRetries)},
		},
	}

	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default credential: %w", err)
	}
	return azblob.NewClient(cfg.ServiceURL, cred, opts)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("container initialization failed", "container", a.container, "error", err)
			return
		}
		a.ready.Store(true)
		a.logger.Info("container ready", "container", a.container)
	})
	return nil
}

func (a *azure) Ready() bool {
	return a.ready.Load()
}

func (a *azure) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := a.client.UploadStream(ctx, a.container, key, r, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}
	return resp.Body, nil
}

func (a *azure) ReadAll(ctx context.Context, key string) ([]byte, error) {
	body, err := a.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}

	_, err := a.client.ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key).
		GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob %s: %w", key, err)
	}
	return true, nil
}

// ValidateKey rejects empty keys and keys with path traversal segments.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
