// Package repository defines the persistence layer: store interfaces, their
// MySQL implementations and sentinel errors shared across stores.  Handlers
// translate the sentinels into HTTP status codes (404, 409).
package repository

import "errors"

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint such as users.username, users.email or posts.title.
var ErrDuplicate = errors.New("duplicate record")
