// Package order owns order creation from carts and the order status
// lifecycle.
package order

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// Order is an immutable record of a purchase. Total is computed once
// at creation from the line snapshots and never recomputed.
type Order struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	OrderDate           time.Time  `json:"order_date"`
	Status              Status     `json:"status"`
	Total               int64      `json:"total"` // cents
	ShippingAddress     string     `json:"shipping_address,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	ProcessedAt         *time.Time `json:"processed_at,omitempty"`
	Items               []Item     `json:"items,omitempty"`
}

// Item is an immutable snapshot of a purchased line, copied verbatim
// from the cart at creation time.
type Item struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // cents
}

// LineTotal returns quantity x unit price in cents.
func (i Item) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Store is the order persistence contract. The implementation owns the
// checkout transaction.
type Store interface {
	// Create atomically inserts the order header and items and deletes
	// all cart lines for cartID. Either everything commits or nothing
	// does. Sets o.ID and the item OrderIDs on success.
	Create(ctx context.Context, o *Order, cartID int64) error
	// ByID returns the order with items populated, or ErrOrderNotFound.
	ByID(ctx context.Context, orderID int64) (*Order, error)
	// ByUser returns the user's orders newest first, without items.
	ByUser(ctx context.Context, userID int64) ([]Order, error)
	// All returns every order newest first, without items.
	All(ctx context.Context) ([]Order, error)
	ByStatus(ctx context.Context, status Status) ([]Order, error)
	// SetStatus writes the status. When processedAt is non-nil it is
	// stored; an existing stamp is never cleared.
	SetStatus(ctx context.Context, orderID int64, status Status, processedAt *time.Time) error
	// TotalRevenue sums totals over fulfilled orders, in cents.
	TotalRevenue(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
