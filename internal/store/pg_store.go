package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AliceYangAC/product-service-bb/internal/domain"
	perrors "github.com/AliceYangAC/product-service-bb/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised when an insert collides
// with the products primary key.
const uniqueViolation = "23505"

// createAttempts bounds the insert-retry-on-conflict loop in Create. Each
// conflicting writer needs at most one retry per concurrent winner, so the
// bound comfortably exceeds realistic writer concurrency.
const createAttempts = 50

// PgStore implements ProductStore using PostgreSQL as the data store.
// Products are rows of (id BIGINT PRIMARY KEY, data JSONB); the free-form
// fields live in data, the id only in its column.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all stored products.
func (p *PgStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.db.Query(ctx, `SELECT id, data FROM products`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		product, err := rowToProduct(id, data)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var data []byte
	err := p.db.QueryRow(ctx, `SELECT data FROM products WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	product, err := rowToProduct(id, data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product with id = max(existing)+1. The max-id
// subselect and the insert run as one statement; a concurrent Create that
// computes the same id trips the primary key, and the loser retries with a
// fresh max. Attempts are bounded so a pathological store error cannot spin.
func (p *PgStore) Create(ctx context.Context, fields map[string]any) (*domain.Product, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product fields: %w", err)
	}

	var lastErr error
	for range createAttempts {
		var id int64
		err := p.db.QueryRow(ctx,
			`INSERT INTO products (id, data)
			 VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM products), $1)
			 RETURNING id`,
			data).Scan(&id)
		if err == nil {
			return &domain.Product{ID: id, Fields: fields}, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return nil, fmt.Errorf("failed to create product after %d attempts: %w", createAttempts, lastErr)
}

// Update replaces the stored fields of an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(product.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode product fields: %w", err)
	}
	tag, err := p.db.Exec(ctx, `UPDATE products SET data = $2 WHERE id = $1`, product.ID, data)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Delete(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Count reports the number of stored products.
func (p *PgStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func rowToProduct(id int64, data []byte) (domain.Product, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return domain.Product{}, fmt.Errorf("failed to decode product %d: %w", id, err)
	}
	return domain.Product{ID: id, Fields: fields}, nil
}
