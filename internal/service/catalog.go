// Package service provides the implementation of catalog and image business logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
	"github.com/AliceYangAC/product-service-bb/internal/store"
	"github.com/go-playground/validator/v10"
)

// CatalogService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// ListAll returns all products. Order is not guaranteed.
	ListAll(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create stores a new product with a server-assigned ID. Any ID in the
	// payload is discarded. Returns ErrInvalidInput for malformed payloads.
	Create(ctx context.Context, payload domain.Product) (*domain.Product, error)

	// Update merges the payload's fields into the existing product with
	// payload.ID: fields present in the payload replace stored values,
	// absent fields are preserved, the ID is immutable. Returns
	// ErrInvalidInput when the payload carries no ID, ErrProductNotFound
	// when no product matches it.
	Update(ctx context.Context, payload domain.Product) (*domain.Product, error)

	// Delete removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, id int64) error
}

// Catalog implements CatalogService on top of a ProductStore.
type Catalog struct {
	repository store.ProductStore
	validate   *validator.Validate
}

// NewCatalog creates a new instance of CatalogService with the provided repository.
func NewCatalog(repo store.ProductStore) *Catalog {
	return &Catalog{
		repository: repo,
		validate:   validator.New(),
	}
}

// knownFields carries the constraints applied to well-known product fields
// when a payload happens to provide them. Unknown extra fields always pass
// through untouched; the catalog is schemaless beyond the id.
type knownFields struct {
	Name  *string  `validate:"omitempty,max=200"`
	Price *float64 `validate:"omitempty,gte=0"`
}

// ListAll retrieves all products.
func (s *Catalog) ListAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Catalog) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return product, nil
}

// Create assigns the next free ID and stores the payload's fields.
// A client-supplied ID is discarded.
func (s *Catalog) Create(ctx context.Context, payload domain.Product) (*domain.Product, error) {
	if payload.Fields == nil {
		return nil, perrors.ErrInvalidInput
	}
	if err := s.validateKnown(payload.Fields); err != nil {
		return nil, err
	}
	created, err := s.repository.Create(ctx, payload.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// Update performs a field-level merge of the payload into the stored product.
func (s *Catalog) Update(ctx context.Context, payload domain.Product) (*domain.Product, error) {
	if payload.ID <= 0 || payload.Fields == nil {
		return nil, perrors.ErrInvalidInput
	}
	if err := s.validateKnown(payload.Fields); err != nil {
		return nil, err
	}
	existing, err := s.repository.FindByID(ctx, payload.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d for update: %w", payload.ID, err)
	}
	merged := existing.Merge(payload.Fields)
	if err := s.repository.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", payload.ID, err)
	}
	return &merged, nil
}

// Delete removes a product by its ID.
func (s *Catalog) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}

// validateKnown checks the constraints on well-known fields when present
// with the expected type. Anything else passes through.
func (s *Catalog) validateKnown(fields map[string]any) error {
	var kf knownFields
	if name, ok := fields["name"].(string); ok {
		kf.Name = &name
	}
	if price, ok := fields["price"].(float64); ok {
		kf.Price = &price
	}
	if err := s.validate.Struct(kf); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %v", perrors.ErrInvalidInput, validationErrors)
		}
		return fmt.Errorf("failed to validate product fields: %w", err)
	}
	return nil
}
