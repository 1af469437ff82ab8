package errors

import "errors"

// Storage-level sentinels shared by every repository implementation.
var (
	// ErrNotFound the record does not exist or is not visible to the caller
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate a unique index rejected the write
	ErrDuplicate = errors.New("duplicate record")
	// ErrOptimisticLock the document was modified by another request since it was loaded
	ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")
)
