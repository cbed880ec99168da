// Package customer holds the admin back office customer directory.
package customer

import (
	"context"
	"errors"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is a directory entry maintained by the back office. It is
// distinct from the storefront login account.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the customer directory persistence contract.
type Store interface {
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Put(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
}
