package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when an optimistic-concurrency update
// observes a stale version.
var ErrVersionConflict = errors.New("version conflict")
