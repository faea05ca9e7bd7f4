package services

import (
	"context"
	"fmt"
	"time"

	"drivebox/models"

	"github.com/google/uuid"
)

// ShareService exposes subtrees to unauthenticated readers through opaque
// share tokens. Visibility is inherited: sharing a folder shares its
// entire current subtree, with no per-descendant opt-out.
type ShareService struct {
	store *ItemStore
}

func NewShareService(store *ItemStore) *ShareService {
	return &ShareService{store: store}
}

// CreateShareLink marks an item public and returns its share token. It is
// idempotent: an item that already carries a token gets the same one back
// (re-enabling visibility if it had been revoked). Only the owner may
// share.
func (s *ShareService) CreateShareLink(ctx context.Context, itemID uint64, ownerID string) (string, error) {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", ErrNotFound
	}
	if item.OwnerID != ownerID {
		return "", ErrForbidden
	}

	public := true

	if item.ShareID != nil {
		if !item.IsPublic {
			if _, err := s.store.Update(ctx, itemID, ItemPatch{IsPublic: &public}); err != nil {
				return "", err
			}
		}
		return *item.ShareID, nil
	}

	token := newShareToken()
	if _, err := s.store.Update(ctx, itemID, ItemPatch{ShareID: &token, IsPublic: &public}); err != nil {
		return "", err
	}
	return token, nil
}

// RevokeShareLink turns a share off. The token stays on the row so a
// later re-share hands out the same link, but resolution fails until then.
func (s *ShareService) RevokeShareLink(ctx context.Context, itemID uint64, ownerID string) error {
	item, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	if item.OwnerID != ownerID {
		return ErrForbidden
	}

	private := false
	_, err = s.store.Update(ctx, itemID, ItemPatch{IsPublic: &private})
	return err
}

// ResolveShare returns the item behind a token, but only while it is
// public. An unknown token and a token pointing at a now-private item are
// indistinguishable: both yield ErrNotFound, so private items never leak
// their existence.
func (s *ShareService) ResolveShare(ctx context.Context, shareID string) (*models.Item, error) {
	if shareID == "" {
		return nil, ErrNotFound
	}

	item, err := s.store.GetByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsPublic {
		return nil, ErrNotFound
	}
	return item, nil
}

// GetPublicFolderContents lists the direct children of a folder when the
// folder itself is public. Children inherit visibility from the shared
// ancestor; their own IsPublic flags are irrelevant here.
func (s *ShareService) GetPublicFolderContents(ctx context.Context, folderID uint64) ([]models.Item, error) {
	folder, err := s.store.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || !folder.IsFolder() || !folder.IsPublic {
		return nil, ErrNotFound
	}
	return s.store.GetChildren(ctx, folder.ID, folder.OwnerID)
}

// newShareToken mints an opaque token: timestamp plus random suffix.
// Collision resistance is enough; the token is an unguessable capability,
// not cryptographic material.
func newShareToken() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}
