package jobs

import (
	"context"
	"testing"
	"time"

	"drivebox/models"
	"drivebox/pkg/uploadit"
	"drivebox/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSweeper(t *testing.T) (*PlaceholderSweeper, *services.ItemStore, *services.ItemService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Item{}))

	provider, err := uploadit.NewFilesystemProvider(uploadit.FilesystemConfig{
		UploadDir: t.TempDir(),
		BaseURL:   "http://localhost/files",
	})
	require.NoError(t, err)

	store := services.NewItemStore(db)
	storage := services.NewStorageService(provider, store, 0, 0)
	items := services.NewItemService(store, storage)

	// A negative grace period puts the cutoff in the future, so every
	// placeholder row counts as stale immediately.
	sweeper := NewPlaceholderSweeper(store, items, time.Hour, -time.Hour)
	return sweeper, store, items
}

func TestSweepRemovesStalePlaceholders(t *testing.T) {
	sweeper, store, items := newTestSweeper(t)
	ctx := context.Background()

	folder, err := items.CreateFolder(ctx, "inbox", nil, "u1")
	require.NoError(t, err)

	placeholder, err := store.Insert(ctx, &models.Item{
		Name:     "never-finished.pdf",
		Kind:     models.KindPDF,
		ParentID: &folder.ID,
		OwnerID:  "u1",
	})
	require.NoError(t, err)

	key := "folder-1/done.pdf"
	completed, err := store.Insert(ctx, &models.Item{
		Name:      "done.pdf",
		Kind:      models.KindPDF,
		ObjectRef: &key,
		ParentID:  &folder.ID,
		OwnerID:   "u1",
	})
	require.NoError(t, err)

	sweeper.runSweep(ctx)

	gone, err := store.GetByID(ctx, placeholder.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "placeholder should be swept")

	kept, err := store.GetByID(ctx, completed.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept, "completed upload must survive")

	// The parent's cached count reflects the sweep.
	parent, err := store.GetByID(ctx, folder.ID)
	require.NoError(t, err)
	require.NotNil(t, parent.ItemCount)
	assert.Equal(t, 1, *parent.ItemCount)
}

func TestSweepIgnoresFolders(t *testing.T) {
	sweeper, store, items := newTestSweeper(t)
	ctx := context.Background()

	folder, err := items.CreateFolder(ctx, "keep-me", nil, "u1")
	require.NoError(t, err)

	sweeper.runSweep(ctx)

	kept, err := store.GetByID(ctx, folder.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
