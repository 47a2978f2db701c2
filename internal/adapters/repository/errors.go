package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("job not found")
	ErrDuplicateID = errors.New("job id already exists")
	ErrClosed      = errors.New("store is closed")
)
