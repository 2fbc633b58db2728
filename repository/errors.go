package repository

import "errors"

// Sentinel errors surfaced by every repository. Handlers translate these to
// the API error codes; anything else is logged and reported as internal.
var (
	ErrConflict = errors.New("record already exists")
	ErrNotFound = errors.New("record not found")
)
