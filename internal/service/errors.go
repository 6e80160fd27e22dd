package service

import "errors"

// ErrValidation marks malformed or semantically invalid input (unknown trait
// name, bad extent label, mismatched ownership). Maps to a 400 at the edge.
var ErrValidation = errors.New("validation error")

// ErrDataIntegrity marks stored state that violates an invariant the core
// depends on.
var ErrDataIntegrity = errors.New("data integrity error")

// ErrConflict marks a lost optimistic-concurrency race. Maps to a 409.
var ErrConflict = errors.New("conflict")
