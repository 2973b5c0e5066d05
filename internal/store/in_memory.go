package store

import (
	"context"
	"sync"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
)

// inMemory implements ProductStore using an in-memory map.
// A single mutex guards the max-id computation and insert together, which is
// what makes concurrent Create calls collision-free on this backend.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

// NewInMemoryStore creates a new instance of ProductStore backed by a map.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]domain.Product),
	}
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p.Clone())
	}
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	c := p.Clone()
	return &c, nil
}

// Create assigns max(existing)+1 as the new ID and inserts the product.
func (s *inMemory) Create(_ context.Context, fields map[string]any) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for id := range s.products {
		if id > maxID {
			maxID = id
		}
	}
	p := domain.Product{ID: maxID + 1, Fields: fields}
	s.products[p.ID] = p.Clone()
	return &p, nil
}

// Update replaces the stored fields of an existing product.
func (s *inMemory) Update(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return perrors.ErrProductNotFound
	}
	s.products[p.ID] = p.Clone()
	return nil
}

// Delete removes a product by its ID.
func (s *inMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Count reports the number of stored products.
func (s *inMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}
