// Package blob defines the interface for binary object storage backends.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound indicates the requested object key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Store defines the operations the image service needs from a blob backend.
type Store interface {
	// EnsureContainer creates the backing container/bucket if it does not
	// exist. It is idempotent: an "already exists" response from the store
	// is a success, including when a concurrent caller won the creation race.
	EnsureContainer(ctx context.Context) error

	// List returns the keys of all stored objects whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Upload stores the content under key, overwriting any existing object.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download streams the content stored under key.
	// Returns ErrObjectNotFound if no such object exists.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}
