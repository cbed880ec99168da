// Package user holds the storefront login accounts.
package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Roles assignable to accounts.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a login account. PasswordHash is a bcrypt hash and never
// leaves the package boundary in responses.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Name returns the display name.
func (u *User) Name() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Store is the user persistence contract.
type Store interface {
	// Insert creates the account, returning ErrEmailTaken on a
	// duplicate email. Sets u.ID on success.
	Insert(ctx context.Context, u *User) error
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
}
