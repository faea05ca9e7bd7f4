package models

import (
	"strings"
	"time"
)

// ItemKind discriminates the rows of the items table. The set is closed:
// the store rejects unknown kinds instead of persisting free-text values.
type ItemKind string

const (
	KindFolder      ItemKind = "folder"
	KindDocument    ItemKind = "document"
	KindSpreadsheet ItemKind = "spreadsheet"
	KindPDF         ItemKind = "pdf"
	KindImage       ItemKind = "image"
	KindOther       ItemKind = "other"
)

// ValidKind reports whether k is one of the known item kinds.
func ValidKind(k ItemKind) bool {
	switch k {
	case KindFolder, KindDocument, KindSpreadsheet, KindPDF, KindImage, KindOther:
		return true
	}
	return false
}

// KindFromContentType maps an upload's MIME type to an ItemKind.
func KindFromContentType(contentType string) ItemKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.Contains(contentType, "pdf"):
		return KindPDF
	case strings.Contains(contentType, "spreadsheet"),
		strings.Contains(contentType, "excel"),
		strings.Contains(contentType, "csv"):
		return KindSpreadsheet
	case strings.Contains(contentType, "document"),
		strings.Contains(contentType, "word"),
		strings.HasPrefix(contentType, "text/"):
		return KindDocument
	}
	return KindOther
}

// Item is a single node of the file/folder tree. Files and folders share
// one table; Kind discriminates. ParentID forms an adjacency list: nil
// means root level, otherwise it must reference an existing folder owned
// by the same user.
type Item struct {
	ID   uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string   `gorm:"not null;index" json:"name"`
	Kind ItemKind `gorm:"type:text;not null" json:"kind"`

	// Size is the byte count for files, nil for folders.
	Size *int64 `json:"size,omitempty"`

	// ObjectRef is the object-storage key for a file's bytes. It stays nil
	// between "create row" and "upload complete", and permanently for folders.
	ObjectRef *string `json:"object_ref,omitempty"`

	// AccessURL is the last-issued time-limited URL for the file. It is a
	// cache: the URL can always be re-derived from ObjectRef.
	AccessURL         *string    `json:"access_url,omitempty"`
	AccessURLIssuedAt *time.Time `json:"access_url_issued_at,omitempty"`

	ParentID *uint64 `gorm:"index" json:"parent_id,omitempty"`

	// ItemCount is a cached count of direct children, folders only.
	// Recomputed in full after every structural mutation.
	ItemCount *int `json:"item_count,omitempty"`

	OwnerID string `gorm:"not null;index" json:"owner_id"`

	// ShareID is minted once per item; revoking a share keeps the token but
	// flips IsPublic off, so a stale token resolves to nothing.
	ShareID  *string `gorm:"uniqueIndex" json:"share_id,omitempty"`
	IsPublic bool    `gorm:"not null;default:false" json:"is_public"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `gorm:"column:modified_at" json:"modified_at"`
}

func (Item) TableName() string {
	return "items"
}

// IsFolder reports whether the item is a folder node.
func (i *Item) IsFolder() bool {
	return i.Kind == KindFolder
}
