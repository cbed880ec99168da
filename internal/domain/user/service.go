package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/abc-retail-cloud/internal/auth"
)

// Service handles account registration and credential checks.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a customer account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName, phone string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		Role:         RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}

	log.Printf("[User] Registered %s (id %d)", email, u.ID)
	return u, nil
}

// Authenticate verifies the credentials and returns the account.
// A missing account and a wrong password are indistinguishable to the
// caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.ByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.ByID(ctx, id)
}
