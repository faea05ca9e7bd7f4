package services

import (
	"context"
	"testing"
	"time"

	"drivebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStoreInsertValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := store.Insert(ctx, &models.Item{Name: "  ", Kind: models.KindFolder, OwnerID: "u1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := store.Insert(ctx, &models.Item{Name: "x", Kind: "archive", OwnerID: "u1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		_, err := store.Insert(ctx, &models.Item{Name: "x", Kind: models.KindFolder})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects nonexistent parent", func(t *testing.T) {
		missing := uint64(999)
		_, err := store.Insert(ctx, &models.Item{Name: "x", Kind: models.KindFolder, ParentID: &missing, OwnerID: "u1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects file as parent", func(t *testing.T) {
		file, err := store.Insert(ctx, &models.Item{Name: "doc.pdf", Kind: models.KindPDF, OwnerID: "u1"})
		require.NoError(t, err)

		_, err = store.Insert(ctx, &models.Item{Name: "x", Kind: models.KindFolder, ParentID: &file.ID, OwnerID: "u1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects parent owned by someone else", func(t *testing.T) {
		other, err := store.Insert(ctx, &models.Item{Name: "theirs", Kind: models.KindFolder, OwnerID: "u2"})
		require.NoError(t, err)

		_, err = store.Insert(ctx, &models.Item{Name: "x", Kind: models.KindFolder, ParentID: &other.ID, OwnerID: "u1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestItemStoreGetByIDMissing(t *testing.T) {
	store := newTestStore(t)

	item, err := store.GetByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestItemStoreUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	folder, err := store.Insert(ctx, &models.Item{Name: "docs", Kind: models.KindFolder, OwnerID: "u1"})
	require.NoError(t, err)

	t.Run("unknown id returns nil", func(t *testing.T) {
		updated, err := store.Update(ctx, 99999, ItemPatch{})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("advances modified_at", func(t *testing.T) {
		before := folder.ModifiedAt
		time.Sleep(2 * time.Millisecond)

		name := "documents"
		updated, err := store.Update(ctx, folder.ID, ItemPatch{Name: &name})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "documents", updated.Name)
		assert.True(t, updated.ModifiedAt.After(before))
	})

	t.Run("SetParent with nil moves to root", func(t *testing.T) {
		child, err := store.Insert(ctx, &models.Item{Name: "inner", Kind: models.KindFolder, ParentID: &folder.ID, OwnerID: "u1"})
		require.NoError(t, err)

		updated, err := store.Update(ctx, child.ID, ItemPatch{SetParent: true, ParentID: nil})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.ParentID)
	})
}

func TestItemStoreSearchCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Quarterly Report.pdf", "report-draft.txt", "holiday.png"} {
		_, err := store.Insert(ctx, &models.Item{Name: name, Kind: models.KindOther, OwnerID: "u1"})
		require.NoError(t, err)
	}
	_, err := store.Insert(ctx, &models.Item{Name: "report.pdf", Kind: models.KindPDF, OwnerID: "u2"})
	require.NoError(t, err)

	results, err := store.SearchByName(ctx, "REPORT", "u1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Ordered by name.
	assert.Equal(t, "Quarterly Report.pdf", results[0].Name)
	assert.Equal(t, "report-draft.txt", results[1].Name)
}

func TestItemStoreListStalePlaceholders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A file row with no object reference, backdated past the cutoff.
	placeholder, err := store.Insert(ctx, &models.Item{Name: "ghost.pdf", Kind: models.KindPDF, OwnerID: "u1"})
	require.NoError(t, err)
	err = store.db.Model(&models.Item{}).
		Where("id = ?", placeholder.ID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error
	require.NoError(t, err)

	// A completed file and a folder, both old, neither a placeholder.
	key := "k1"
	_, err = store.Insert(ctx, &models.Item{Name: "real.pdf", Kind: models.KindPDF, ObjectRef: &key, OwnerID: "u1"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, &models.Item{Name: "dir", Kind: models.KindFolder, OwnerID: "u1"})
	require.NoError(t, err)

	stale, err := store.ListStalePlaceholders(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "ghost.pdf", stale[0].Name)
}
