// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns all stored products, in no guaranteed order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]domain.Product, error)

	// FindByID retrieves a single product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a new product, assigning the next free ID
	// (max existing + 1, or 1 for an empty collection). The assignment and
	// insert behave as a single atomic step with respect to concurrent
	// Create calls, so two callers can never receive the same ID.
	Create(ctx context.Context, fields map[string]any) (*domain.Product, error)

	// Update replaces the stored fields of the product with p.ID.
	// Returns ErrProductNotFound if no product exists with that ID.
	Update(ctx context.Context, p domain.Product) error

	// Delete removes the product with the given ID.
	// Returns ErrProductNotFound if no product exists with that ID.
	Delete(ctx context.Context, id int64) error

	// Count reports the number of stored products.
	Count(ctx context.Context) (int64, error)
}
