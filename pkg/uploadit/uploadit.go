// Package uploadit is a small provider-agnostic upload abstraction: a
// storage backend hands out time-limited PUT and GET URLs for opaque keys
// and deletes objects, without the application ever touching provider SDK
// types. Backends: Amazon S3 (and S3-compatible endpoints), Backblaze B2,
// and a local filesystem for development.
package uploadit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPresignedUploadUnsupported is returned by providers that cannot hand
// out presigned PUT URLs (B2's native API signs downloads only).
var ErrPresignedUploadUnsupported = errors.New("provider does not support presigned uploads")

// Provider is the contract every storage backend implements. TTLs bound
// the lifetime of issued URLs; all calls honor the caller's context
// deadline.
type Provider interface {
	// IssuePutURL returns a URL a client can PUT the object bytes to.
	IssuePutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// IssueGetURL returns a URL the object bytes can be fetched from.
	IssueGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// DeleteObject removes the object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error
}

// ProviderType selects a backend in Config.
type ProviderType string

const (
	ProviderS3         ProviderType = "s3"
	ProviderB2         ProviderType = "b2"
	ProviderFilesystem ProviderType = "filesystem"
)

// Config selects and configures a provider.
type Config struct {
	Provider   ProviderType
	S3         S3Config
	B2         B2Config
	Filesystem FilesystemConfig
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderS3:
		return NewS3Provider(ctx, cfg.S3)
	case ProviderB2:
		return NewB2Provider(ctx, cfg.B2)
	case ProviderFilesystem:
		return NewFilesystemProvider(cfg.Filesystem)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
