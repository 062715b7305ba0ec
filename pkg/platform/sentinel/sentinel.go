package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and caches return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: the record or cache entry does not exist
//   - ErrUnavailable: the backing service is down or its circuit is open
//   - ErrInvalidState: stored data cannot be interpreted (corrupt cache entry)
//
// For validation errors (bad input, unknown codes), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
)
