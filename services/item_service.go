package services

import (
	"context"
	"log"
	"strconv"

	"drivebox/models"
	"drivebox/utils"
)

// maxWalkDepth bounds every upward walk over parent links. Writes are
// supposed to keep the table a forest, but the store cannot enforce
// acyclicity, so traversals never trust it.
const maxWalkDepth = 20

// Crumb is one entry of a breadcrumb path. ID is a string because the
// first entry is always the synthetic root, which has no numeric id.
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemService maintains the tree invariants over the item store: contents
// listing, breadcrumbs, cascading deletion, item-count recounts, moves and
// search. All operations are scoped to the calling owner.
type ItemService struct {
	store   *ItemStore
	storage *StorageService
	logger  *log.Logger
}

func NewItemService(store *ItemStore, storage *StorageService) *ItemService {
	return &ItemService{
		store:   store,
		storage: storage,
		logger:  log.New(log.Writer(), "[ITEMS] ", log.LstdFlags),
	}
}

// CreateFolder inserts an empty folder under parentID (nil for root) and
// recounts the parent.
func (s *ItemService) CreateFolder(ctx context.Context, name string, parentID *uint64, ownerID string) (*models.Item, error) {
	if err := utils.ValidateItemName(name); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	zero := 0
	folder, err := s.store.Insert(ctx, &models.Item{
		Name:      name,
		Kind:      models.KindFolder,
		ParentID:  parentID,
		ItemCount: &zero,
		OwnerID:   ownerID,
	})
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.RecomputeItemCount(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	return folder, nil
}

// CompleteUploadParams carries everything the "upload complete" step needs
// to record a file row.
type CompleteUploadParams struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
	ParentID    *uint64
	OwnerID     string
}

// CompleteUpload records an uploaded object as a file item: it derives the
// kind from the content type, asks the resolver for an access URL, inserts
// the row and recounts the parent. An upstream failure while signing the
// access URL does not lose the upload: the row is still created with the
// objectRef and the URL is derived later on first access.
func (s *ItemService) CompleteUpload(ctx context.Context, p CompleteUploadParams) (*models.Item, error) {
	if p.Key == "" || p.Name == "" || p.ContentType == "" || p.Size <= 0 {
		return nil, invalidf("file key, name, content type and size are required")
	}
	if err := utils.ValidateItemName(p.Name); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	item := &models.Item{
		Name:      p.Name,
		Kind:      models.KindFromContentType(p.ContentType),
		Size:      &p.Size,
		ObjectRef: &p.Key,
		ParentID:  p.ParentID,
		OwnerID:   p.OwnerID,
	}

	accessURL, issuedAt, err := s.storage.IssueAccessURL(ctx, p.Key)
	if err != nil {
		s.logger.Printf("could not issue access URL for %q, recording file without one: %v", p.Key, err)
	} else {
		item.AccessURL = &accessURL
		item.AccessURLIssuedAt = &issuedAt
	}

	created, err := s.store.Insert(ctx, item)
	if err != nil {
		return nil, err
	}

	if p.ParentID != nil {
		if err := s.RecomputeItemCount(ctx, *p.ParentID); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// GetFolderContents lists the direct children of one of the owner's
// folders, ordered by name.
func (s *ItemService) GetFolderContents(ctx context.Context, folderID uint64, ownerID string) ([]models.Item, error) {
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.store.GetChildren(ctx, folder.ID, ownerID)
}

// GetRootItems lists the owner's root-level items.
func (s *ItemService) GetRootItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	return s.store.GetRootItems(ctx, ownerID)
}

// GetItem fetches a single item the owner can see.
func (s *ItemService) GetItem(ctx context.Context, id uint64, ownerID string) (*models.Item, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if item.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return item, nil
}

// Breadcrumbs reconstructs the path from the synthetic root ("My Drive")
// down to the target folder. The upward walk is capped at maxWalkDepth
// hops; past that the partial path is returned rather than looping on
// corrupted data.
func (s *ItemService) Breadcrumbs(ctx context.Context, folderID uint64, ownerID string) ([]Crumb, error) {
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	path := []Crumb{{ID: strconv.FormatUint(folder.ID, 10), Name: folder.Name}}
	parentID := folder.ParentID

	for depth := 0; parentID != nil && depth < maxWalkDepth; depth++ {
		parent, err := s.store.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || !parent.IsFolder() {
			break
		}
		path = append([]Crumb{{ID: strconv.FormatUint(parent.ID, 10), Name: parent.Name}}, path...)
		parentID = parent.ParentID
	}

	return append([]Crumb{{ID: "root", Name: "My Drive"}}, path...), nil
}

// Rename changes an item's display name and advances modifiedAt.
func (s *ItemService) Rename(ctx context.Context, id uint64, newName, ownerID string) (*models.Item, error) {
	if err := utils.ValidateItemName(newName); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if _, err := s.GetItem(ctx, id, ownerID); err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, id, ItemPatch{Name: &newName})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Move reparents an item. A nil newParentID means "move to root". The new
// parent must be one of the owner's folders and must not be the item
// itself or any of its descendants; a violation aborts with CycleError and
// no state change.
func (s *ItemService) Move(ctx context.Context, id uint64, newParentID *uint64, ownerID string) (*models.Item, error) {
	item, err := s.GetItem(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if _, err := s.ownedFolder(ctx, *newParentID, ownerID); err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, item.ID, *newParentID); err != nil {
			return nil, err
		}
	}

	oldParentID := item.ParentID

	updated, err := s.store.Update(ctx, id, ItemPatch{SetParent: true, ParentID: newParentID})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if oldParentID != nil {
		if err := s.RecomputeItemCount(ctx, *oldParentID); err != nil {
			return nil, err
		}
	}
	if newParentID != nil {
		if err := s.RecomputeItemCount(ctx, *newParentID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Delete removes an item and, for folders, the whole subtree beneath it.
// A missing id is an idempotent no-op returning false. External object
// cleanup is best-effort: a storage failure is logged and never blocks
// the row deletion, since an orphaned object beats an undeletable row.
func (s *ItemService) Delete(ctx context.Context, id uint64, ownerID string) (bool, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if item.OwnerID != ownerID {
		return false, ErrForbidden
	}

	parentID := item.ParentID

	if err := s.deleteSubtree(ctx, item); err != nil {
		return false, err
	}

	if parentID != nil {
		if err := s.RecomputeItemCount(ctx, *parentID); err != nil {
			return false, err
		}
	}
	return true, nil
}

// deleteSubtree removes one item and recurses into its children. The row
// goes first so that a corrupted parent cycle cannot recurse forever:
// once the row is gone, its children enumeration shrinks on every pass.
// Each step stands alone; re-running Delete finishes a partially deleted
// subtree.
func (s *ItemService) deleteSubtree(ctx context.Context, item *models.Item) error {
	if item.ObjectRef != nil {
		if err := s.storage.DeleteObject(ctx, *item.ObjectRef); err != nil {
			s.logger.Printf("best-effort object cleanup failed for item %d (key %s): %v", item.ID, *item.ObjectRef, err)
		}
	}

	if _, err := s.store.Delete(ctx, item.ID); err != nil {
		return err
	}
	s.storage.DropCached(item.ID)

	if !item.IsFolder() {
		return nil
	}

	children, err := s.store.GetChildren(ctx, item.ID, item.OwnerID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := s.deleteSubtree(ctx, &children[i]); err != nil {
			return err
		}
	}
	return nil
}

// Search matches the owner's items by name substring, case-insensitively,
// ordered by name. Public items owned by others are never included.
func (s *ItemService) Search(ctx context.Context, query, ownerID string) ([]models.Item, error) {
	if query == "" {
		return []models.Item{}, nil
	}
	return s.store.SearchByName(ctx, query, ownerID)
}

// RecomputeItemCount sets a folder's cached child count to a fresh
// count(*) of its direct children. A full recount self-corrects under any
// interleaving of concurrent requests, which an increment/decrement would
// not.
func (s *ItemService) RecomputeItemCount(ctx context.Context, folderID uint64) error {
	folder, err := s.store.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder == nil || !folder.IsFolder() {
		return nil
	}

	count, err := s.store.CountChildren(ctx, folderID)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, folderID, ItemPatch{ItemCount: &count})
	return err
}

// checkNoCycle walks the ancestor chain of the proposed parent and fails
// if the moved item shows up in it. The walk shares maxWalkDepth with the
// breadcrumb traversal, but unlike the read paths it fails closed: a chain
// too deep to verify rejects the move rather than risking a written cycle.
func (s *ItemService) checkNoCycle(ctx context.Context, itemID, newParentID uint64) error {
	if itemID == newParentID {
		return &CycleError{ItemID: itemID, NewParentID: newParentID}
	}

	current := &newParentID
	for depth := 0; depth < maxWalkDepth; depth++ {
		if current == nil {
			return nil
		}
		ancestor, err := s.store.GetByID(ctx, *current)
		if err != nil {
			return err
		}
		if ancestor == nil {
			return nil
		}
		if ancestor.ID == itemID {
			return &CycleError{ItemID: itemID, NewParentID: newParentID}
		}
		current = ancestor.ParentID
	}
	if current == nil {
		return nil
	}
	return &CycleError{ItemID: itemID, NewParentID: newParentID}
}

// ownedFolder resolves a folder id within the owner's scope.
func (s *ItemService) ownedFolder(ctx context.Context, folderID uint64, ownerID string) (*models.Item, error) {
	folder, err := s.store.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || !folder.IsFolder() {
		return nil, ErrNotFound
	}
	if folder.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return folder, nil
}
