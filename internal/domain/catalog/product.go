// Package catalog holds the product catalog collaborator consumed by
// the storefront and written by the inventory ledger.
package catalog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict is returned when an update loses a concurrent
	// write race on the same product.
	ErrVersionConflict = errors.New("product was modified concurrently")
)

// Product is a catalog entry with a mutable stock counter. Price is in
// cents. Version guards concurrent updates: the store rejects a write
// whose Version no longer matches the stored row.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         int64     `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      string    `json:"image_url,omitempty"`
	Category      string    `json:"category,omitempty"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
}

// LowStock reports whether the product is at or below the given
// threshold.
func (p *Product) LowStock(threshold int) bool {
	return p.StockQuantity <= threshold
}

// Store is the product catalog persistence contract.
type Store interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Put(ctx context.Context, p *Product) error
	// Update writes p if p.Version matches the stored row, then
	// increments the version. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
