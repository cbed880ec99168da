// Package cart owns the per-user shopping cart and its line items.
package cart

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Cart is a user's in-progress selection. At most one cart exists per
// user; it is created lazily and never deleted, only its items are.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one cart line. ProductName and UnitPrice are snapshots taken
// at add time; later catalog changes do not reprice the line.
type Item struct {
	ID          int64     `json:"id"`
	CartID      int64     `json:"cart_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"` // cents
	AddedAt     time.Time `json:"added_at"`
}

// LineTotal returns quantity x unit price in cents.
func (i Item) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Store is the cart persistence contract.
type Store interface {
	// GetOrCreate returns the user's cart, creating an empty one if
	// absent. Concurrent calls for the same user must converge on a
	// single row.
	GetOrCreate(ctx context.Context, userID int64) (*Cart, error)
	// UpsertItem inserts a line or increments the quantity of an
	// existing (cart, product) line, and bumps the cart's updated_at.
	UpsertItem(ctx context.Context, cartID int64, productID, productName string, unitPrice int64, quantity int) error
	// SetItemQuantity sets a line's quantity exactly.
	SetItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	// ItemsByCart returns lines most recently added first.
	ItemsByCart(ctx context.Context, cartID int64) ([]Item, error)
	// ClearItems deletes all lines but keeps the cart row.
	ClearItems(ctx context.Context, cartID int64) error
	// Total returns SUM(quantity * unit_price) in cents, 0 when empty.
	Total(ctx context.Context, cartID int64) (int64, error)
	// ItemCount returns SUM(quantity) across the user's cart, 0 when
	// the user has no cart or items.
	ItemCount(ctx context.Context, userID int64) (int, error)
}
