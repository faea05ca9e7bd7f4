package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"drivebox/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *ItemStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Item{}))

	return NewItemStore(db)
}

// fakeProvider is an in-memory uploadit.Provider for service tests. It
// records issued keys and deleted objects and can be told to fail.
type fakeProvider struct {
	mu      sync.Mutex
	fail    bool
	deleted []string
	signed  int
}

func (f *fakeProvider) IssuePutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", fmt.Errorf("provider unavailable")
	}
	f.signed++
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeProvider) IssueGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", fmt.Errorf("provider unavailable")
	}
	f.signed++
	return fmt.Sprintf("https://storage.test/get/%s?n=%d", key, f.signed), nil
}

func (f *fakeProvider) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("provider unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeProvider) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeProvider) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// newTestServices wires a full service stack over an in-memory database
// and a fake storage provider.
func newTestServices(t *testing.T) (*ItemService, *ShareService, *StorageService, *ItemStore, *fakeProvider) {
	t.Helper()

	store := newTestStore(t)
	provider := &fakeProvider{}
	storage := NewStorageService(provider, store, 0, 0)
	items := NewItemService(store, storage)
	shares := NewShareService(store)
	return items, shares, storage, store, provider
}

func mustCreateFolder(t *testing.T, items *ItemService, name string, parentID *uint64, ownerID string) *models.Item {
	t.Helper()
	folder, err := items.CreateFolder(context.Background(), name, parentID, ownerID)
	require.NoError(t, err)
	return folder
}

func mustCreateFile(t *testing.T, items *ItemService, name string, parentID *uint64, ownerID string) *models.Item {
	t.Helper()
	file, err := items.CompleteUpload(context.Background(), CompleteUploadParams{
		Key:         "test-key-" + name,
		Name:        name,
		ContentType: "application/pdf",
		Size:        1024,
		ParentID:    parentID,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return file
}
