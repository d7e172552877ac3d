// Package repository defines error types that are reused across the
// repositories.  These sentinel values let handlers distinguish between
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when an insert violates the unique
// constraint on users.username.  Handlers render it exactly like a failed
// pre-check so a concurrent duplicate registration looks the same to the user.
var ErrUsernameTaken = errors.New("username already taken")
