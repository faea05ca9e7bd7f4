package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"drivebox/models"

	"gorm.io/gorm"
)

// ItemStore is the persistence layer for the items table. It does point
// lookups and single-row mutations only; tree traversal and cascading live
// in ItemService.
type ItemStore struct {
	db *gorm.DB
}

func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

// ItemPatch describes a partial update. Nil fields are left untouched.
// SetParent distinguishes "leave the parent alone" from "move to root"
// (SetParent true with a nil ParentID).
type ItemPatch struct {
	Name              *string
	SetParent         bool
	ParentID          *uint64
	ItemCount         *int
	ObjectRef         *string
	AccessURL         *string
	AccessURLIssuedAt *time.Time
	ShareID           *string
	IsPublic          *bool
}

// GetByID returns the item or nil if no row matches.
func (s *ItemStore) GetByID(ctx context.Context, id uint64) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByShareID returns the item carrying the given share token, or nil.
// No visibility check happens here; ShareService decides what resolves.
func (s *ItemStore) GetByShareID(ctx context.Context, shareID string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "share_id = ?", shareID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetChildren returns all direct children of a folder belonging to the
// owner, ordered by name.
func (s *ItemStore) GetChildren(ctx context.Context, folderID uint64, ownerID string) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("parent_id = ? AND owner_id = ?", folderID, ownerID).
		Order("name").
		Find(&items).Error
	return items, err
}

// GetRootItems returns the owner's items with a null parent, ordered by name.
func (s *ItemStore) GetRootItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("parent_id IS NULL AND owner_id = ?", ownerID).
		Order("name").
		Find(&items).Error
	return items, err
}

// CountChildren counts rows whose parent_id is folderID, regardless of
// owner. Used for the full itemCount recount.
func (s *ItemStore) CountChildren(ctx context.Context, folderID uint64) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("parent_id = ?", folderID).
		Count(&count).Error
	return int(count), err
}

// Insert assigns an id and timestamps and persists the item. The parent,
// when present, must resolve to an existing folder owned by the same user.
func (s *ItemStore) Insert(ctx context.Context, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, invalidf("item name cannot be empty")
	}
	if !models.ValidKind(item.Kind) {
		return nil, invalidf("unknown item kind %q", item.Kind)
	}
	if item.OwnerID == "" {
		return nil, invalidf("owner id is required")
	}
	if item.ParentID != nil {
		parent, err := s.GetByID(ctx, *item.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.OwnerID != item.OwnerID {
			return nil, invalidf("parent folder %d does not exist", *item.ParentID)
		}
		if !parent.IsFolder() {
			return nil, invalidf("parent %d is not a folder", *item.ParentID)
		}
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.ModifiedAt = now

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial patch and returns the updated item, or nil if
// the id is unknown. modified_at always advances.
func (s *ItemStore) Update(ctx context.Context, id uint64, patch ItemPatch) (*models.Item, error) {
	updates := map[string]any{
		"modified_at": time.Now().UTC(),
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalidf("item name cannot be empty")
		}
		updates["name"] = *patch.Name
	}
	if patch.SetParent {
		if patch.ParentID != nil {
			updates["parent_id"] = *patch.ParentID
		} else {
			updates["parent_id"] = nil
		}
	}
	if patch.ItemCount != nil {
		updates["item_count"] = *patch.ItemCount
	}
	if patch.ObjectRef != nil {
		updates["object_ref"] = *patch.ObjectRef
	}
	if patch.AccessURL != nil {
		updates["access_url"] = *patch.AccessURL
	}
	if patch.AccessURLIssuedAt != nil {
		updates["access_url_issued_at"] = *patch.AccessURLIssuedAt
	}
	if patch.ShareID != nil {
		updates["share_id"] = *patch.ShareID
	}
	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
	}

	res := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

// Delete removes exactly one row and reports whether it existed. Cascading
// through a subtree is ItemService's job.
func (s *ItemStore) Delete(ctx context.Context, id uint64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SearchByName does a case-insensitive substring match over the owner's
// item names, files and folders alike, ordered by name.
func (s *ItemStore) SearchByName(ctx context.Context, fragment, ownerID string) ([]models.Item, error) {
	var items []models.Item
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? AND owner_id = ?", pattern, ownerID).
		Order("name").
		Find(&items).Error
	return items, err
}

// ListStalePlaceholders returns file rows whose upload never completed:
// object_ref is still null and the row is older than the cutoff.
func (s *ItemStore) ListStalePlaceholders(ctx context.Context, cutoff time.Time) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("kind <> ? AND object_ref IS NULL AND created_at < ?", models.KindFolder, cutoff).
		Find(&items).Error
	return items, err
}
