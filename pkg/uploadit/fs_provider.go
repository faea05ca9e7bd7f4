package uploadit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilesystemConfig configures the local-disk provider, meant for
// development and tests. UploadDir is where object bytes land; BaseURL is
// the public prefix the app serves that directory under.
type FilesystemConfig struct {
	UploadDir string
	BaseURL   string
	CreateDir bool
}

// FilesystemProvider maps keys to files under a directory. URLs are not
// actually signed; the TTL is ignored. Key traversal outside the upload
// directory is rejected.
type FilesystemProvider struct {
	uploadDir string
	baseURL   string
}

func NewFilesystemProvider(cfg FilesystemConfig) (*FilesystemProvider, error) {
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("filesystem provider: upload dir is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("filesystem provider: base URL is required")
	}

	if cfg.CreateDir {
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	}

	return &FilesystemProvider{
		uploadDir: cfg.UploadDir,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

func (p *FilesystemProvider) IssuePutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if _, err := p.objectPath(key); err != nil {
		return "", err
	}
	return p.keyURL(key), nil
}

func (p *FilesystemProvider) IssueGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := p.objectPath(key); err != nil {
		return "", err
	}
	return p.keyURL(key), nil
}

func (p *FilesystemProvider) DeleteObject(ctx context.Context, key string) error {
	path, err := p.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (p *FilesystemProvider) keyURL(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return p.baseURL + "/" + strings.Join(parts, "/")
}

func (p *FilesystemProvider) objectPath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.Join(p.uploadDir, filepath.FromSlash(key)))
	if !strings.HasPrefix(cleaned, filepath.Clean(p.uploadDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return cleaned, nil
}
