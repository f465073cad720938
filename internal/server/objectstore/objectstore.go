// Package objectstore abstracts the blob backend that holds uploaded
// document content, addressed by opaque string keys.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound marks a key with no live object behind it.
	ErrNotFound = errors.New("object not found")
	// ErrAlreadyExists marks a refused non-overwriting put on an existing key.
	ErrAlreadyExists = errors.New("object already exists")
)

// NotFoundError conveys that a specific object key was not found in the store.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return "object not found"
	}
	return fmt.Sprintf("%s: not found", e.Key)
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsNotFound reports whether err represents a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is the object-storage surface the core consumes.
type Store interface {
	// Put writes body under key. With overwrite=false the call must fail
	// with ErrAlreadyExists when the key is already live (file uploads);
	// with overwrite=true it replaces silently (avatar upload).
	Put(ctx context.Context, key string, body []byte, contentType string, overwrite bool) error

	// Delete removes the given keys. Deleting a non-existent key is not an
	// error; the operation is idempotent.
	Delete(ctx context.Context, keys []string) error

	// SignedURL returns a time-limited read URL for key. The URL becomes
	// unusable after ttl; there is no server-side revocation. Fails with
	// ErrNotFound when no object is live under key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
