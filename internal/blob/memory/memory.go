// Package memory provides an in-memory implementation of the blob.Store
// interface, used in tests and local development.
package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/AliceYangAC/product-service-bb/internal/blob"
)

// Backend is an in-memory implementation of the blob.Store interface.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// EnsureContainer is a no-op for the in-memory backend.
func (b *Backend) EnsureContainer(_ context.Context) error {
	return nil
}

// List returns the keys of all objects whose name starts with prefix,
// sorted for deterministic iteration.
func (b *Backend) List(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Upload stores the content under key, overwriting any existing object.
func (b *Backend) Upload(_ context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[key] = data
	return nil
}

// Download streams the content stored under key.
func (b *Backend) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[key]
	if !exists {
		return nil, blob.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object stored under key.
func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[key]; !exists {
		return blob.ErrObjectNotFound
	}
	delete(b.objects, key)
	return nil
}
