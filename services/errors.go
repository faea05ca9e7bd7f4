package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the services. Controllers translate these to
// HTTP statuses with errors.Is / errors.As; services never inspect error
// strings.
var (
	// ErrNotFound covers missing items, folders and share tokens. A share
	// token pointing at a now-private item also yields ErrNotFound so that
	// private items never leak their existence.
	ErrNotFound = errors.New("item not found")

	// ErrForbidden means the caller is authenticated but does not own the
	// target item.
	ErrForbidden = errors.New("access denied")
)

// ValidationError reports malformed input: empty names, a parent that is
// not a folder, unknown item kinds, missing upload fields.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CycleError means a move would make an item its own ancestor. The move is
// rejected with no partial state change.
type CycleError struct {
	ItemID      uint64
	NewParentID uint64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("moving item %d under %d would create a cycle", e.ItemID, e.NewParentID)
}

// UpstreamError wraps a failure or timeout of the object-storage
// collaborator. Read paths fall back to the last-known URL where possible;
// write paths propagate it to the caller.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("object storage %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
