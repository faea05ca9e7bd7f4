package uploadit

import (
	"context"
	"fmt"
	"time"

	"github.com/kurin/blazer/b2"
)

// B2Config configures the Backblaze B2 provider.
type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketName     string
}

// B2Provider serves signed download URLs from a private B2 bucket. B2's
// native API signs GET requests only, so IssuePutURL reports
// ErrPresignedUploadUnsupported and uploads must go through the server.
type B2Provider struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2Provider(ctx context.Context, cfg B2Config) (*B2Provider, error) {
	client, err := b2.NewClient(ctx, cfg.KeyID, cfg.ApplicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.BucketName, err)
	}

	return &B2Provider{client: client, bucket: bucket}, nil
}

func (p *B2Provider) IssuePutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	return "", ErrPresignedUploadUnsupported
}

func (p *B2Provider) IssueGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	obj := p.bucket.Object(key)
	urlObj, err := obj.AuthURL(ctx, ttl, "GET")
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL for %q: %w", key, err)
	}
	return urlObj.String(), nil
}

func (p *B2Provider) DeleteObject(ctx context.Context, key string) error {
	obj := p.bucket.Object(key)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %q from B2: %w", key, err)
	}
	return nil
}
