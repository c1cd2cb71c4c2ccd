// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between failure scenarios without inspecting driver errors:
// ErrNotFound covers a missing row of any kind, while ErrEmailExists signals
// a duplicate registration attempt.
package repository

import "errors"

// ErrNotFound is returned when a requested user, payment or message
// counterparty does not exist.  Handlers translate it into a redirect or a
// re-rendered form with an error message, never an unhandled fault.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering with an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")
