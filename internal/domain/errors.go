package domain

import "errors"

// ErrNotFound is returned when a requested date, term, or word id is not part
// of the vocabulary.
// Handlers should map this to HTTP 404; search callers treat it as "no results".
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a model rule (empty term,
// malformed line, combining different words, bad id length, ...).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrReadOnly is returned when the configured word store cannot accept
// new entries.
// Handlers should map this to HTTP 409 Conflict.
var ErrReadOnly = errors.New("store is read-only")
