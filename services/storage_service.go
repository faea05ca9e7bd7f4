package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"time"

	"drivebox/models"
	"drivebox/pkg/uploadit"
)

const (
	// Signed URLs live at most 7 days against AWS Signature V4 for uploads;
	// access URLs are re-derived well before the 30-day policy ceiling.
	defaultUploadTTL = 7 * 24 * time.Hour
	defaultAccessTTL = 7 * 24 * time.Hour

	// urlStaleAfter sits safely under a 30-day maximum signed-URL lifetime:
	// refresh proactively instead of letting consumers hit AccessDenied.
	urlStaleAfter = 25 * 24 * time.Hour

	collaboratorTimeout = 15 * time.Second
)

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// StorageService bridges an item's stored objectRef and a fetchable,
// time-limited URL. It owns key generation for new uploads and the
// stale-URL refresh policy; the actual signing is delegated to the
// uploadit provider.
type StorageService struct {
	provider  uploadit.Provider
	store     *ItemStore
	cache     *urlCache
	uploadTTL time.Duration
	accessTTL time.Duration
	logger    *log.Logger
}

// UploadTarget is a presigned destination for a client-side upload.
type UploadTarget struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"file_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewStorageService(provider uploadit.Provider, store *ItemStore, uploadTTL, accessTTL time.Duration) *StorageService {
	if uploadTTL <= 0 {
		uploadTTL = defaultUploadTTL
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	return &StorageService{
		provider:  provider,
		store:     store,
		cache:     newURLCache(1024),
		uploadTTL: uploadTTL,
		accessTTL: accessTTL,
		logger:    log.New(log.Writer(), "[STORAGE] ", log.LstdFlags),
	}
}

// BuildObjectKey derives the storage key for a new upload:
// {folder-<id>/}{timestamp}-{sanitizedName}. Timestamp granularity plus
// the original name make collisions practically impossible for this
// workload, so no uniqueness check is made against existing keys.
func (s *StorageService) BuildObjectKey(fileName string, folderID *uint64) string {
	sanitized := keySanitizer.ReplaceAllString(fileName, "_")
	prefix := ""
	if folderID != nil {
		prefix = fmt.Sprintf("folder-%d/", *folderID)
	}
	return fmt.Sprintf("%s%d-%s", prefix, time.Now().UnixMilli(), sanitized)
}

// IssueUploadTarget generates a key and asks the collaborator for a
// presigned PUT URL. Collaborator failures propagate as UpstreamError;
// no retry happens here.
func (s *StorageService) IssueUploadTarget(ctx context.Context, fileName, contentType string, folderID *uint64) (*UploadTarget, error) {
	if fileName == "" || contentType == "" {
		return nil, invalidf("file name and content type are required")
	}

	key := s.BuildObjectKey(fileName, folderID)

	ctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	uploadURL, err := s.provider.IssuePutURL(ctx, key, contentType, s.uploadTTL)
	if err != nil {
		return nil, &UpstreamError{Op: "presign upload", Err: err}
	}

	return &UploadTarget{
		UploadURL: uploadURL,
		Key:       key,
		ExpiresAt: time.Now().UTC().Add(s.uploadTTL),
	}, nil
}

// IssueAccessURL asks the collaborator for a fresh GET URL for the key.
func (s *StorageService) IssueAccessURL(ctx context.Context, key string) (string, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	accessURL, err := s.provider.IssueGetURL(ctx, key, s.accessTTL)
	if err != nil {
		return "", time.Time{}, &UpstreamError{Op: "presign download", Err: err}
	}
	return accessURL, time.Now().UTC().Add(s.accessTTL), nil
}

// RefreshIfStale returns a usable access URL for a file item, re-signing
// when the cached URL is older than the staleness threshold or cannot be
// dated at all. On collaborator failure the last-known URL is returned
// together with the UpstreamError so callers can fall back.
func (s *StorageService) RefreshIfStale(ctx context.Context, item *models.Item) (string, error) {
	if item.IsFolder() || item.ObjectRef == nil {
		return "", invalidf("item %d has no stored object", item.ID)
	}

	lastKnown := ""
	if item.AccessURL != nil {
		lastKnown = *item.AccessURL
	}

	if lastKnown != "" && !s.isStale(item, lastKnown) {
		return lastKnown, nil
	}

	// A row loaded before a concurrent refresh may look stale while the
	// cache already holds the re-signed URL.
	if entry, ok := s.cache.get(item.ID); ok && time.Since(entry.issuedAt) < urlStaleAfter {
		return entry.url, nil
	}

	freshURL, issuedAt, err := s.IssueAccessURL(ctx, *item.ObjectRef)
	if err != nil {
		s.logger.Printf("refresh failed for item %d, falling back to last-known URL: %v", item.ID, err)
		return lastKnown, err
	}

	if _, err := s.store.Update(ctx, item.ID, ItemPatch{
		AccessURL:         &freshURL,
		AccessURLIssuedAt: &issuedAt,
	}); err != nil {
		s.logger.Printf("failed to persist refreshed URL for item %d: %v", item.ID, err)
	}
	s.cache.put(item.ID, freshURL, issuedAt)

	return freshURL, nil
}

// DeleteObject is the best-effort cleanup hook used by cascading deletes.
func (s *StorageService) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	if err := s.provider.DeleteObject(ctx, key); err != nil {
		return &UpstreamError{Op: "delete object", Err: err}
	}
	return nil
}

// DropCached forgets the cached URL for an item (used after delete).
func (s *StorageService) DropCached(itemID uint64) {
	s.cache.drop(itemID)
}

// isStale decides whether a cached URL needs re-signing. The issue time
// comes from the item row when tracked there, otherwise from the
// X-Amz-Date parameter of the URL itself; an unparseable URL counts as
// stale.
func (s *StorageService) isStale(item *models.Item, accessURL string) bool {
	if item.AccessURLIssuedAt != nil {
		return time.Since(*item.AccessURLIssuedAt) >= urlStaleAfter
	}

	signedAt, err := extractSigningTime(accessURL)
	if err != nil {
		return true
	}
	return time.Since(signedAt) >= urlStaleAfter
}

// extractSigningTime pulls the SigV4 signing timestamp out of a presigned
// URL's X-Amz-Date query parameter.
func extractSigningTime(rawURL string) (time.Time, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return time.Time{}, err
	}
	amzDate := parsed.Query().Get("X-Amz-Date")
	if amzDate == "" {
		return time.Time{}, fmt.Errorf("no X-Amz-Date in URL")
	}
	return time.Parse("20060102T150405Z", amzDate)
}
