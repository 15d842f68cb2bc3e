package learning

import "errors"

var (
	// ErrPersist indicates the backend could not save the patterns.
	ErrPersist = errors.New("failed to persist learned patterns")
	// ErrStoreMissing indicates the backend holds no store yet.
	ErrStoreMissing = errors.New("pattern store does not exist")
	// ErrStoreCorrupted indicates the backend content could not be decoded.
	ErrStoreCorrupted = errors.New("pattern store corrupted")
	// ErrUnknownBackend indicates an unsupported backend kind.
	ErrUnknownBackend = errors.New("unknown pattern store backend")
)
