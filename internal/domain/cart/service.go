package cart

import (
	"context"
	"fmt"
	"log"
)

// Service exposes cart operations to handlers and the order workflow.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetOrCreate returns the user's cart, creating one on first access.
func (s *Service) GetOrCreate(ctx context.Context, userID int64) (*Cart, error) {
	c, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart for user %d: %w", userID, err)
	}
	return c, nil
}

// AddItem adds quantity of a product to the user's cart. Adding a
// product already in the cart increments the existing line instead of
// duplicating it. The supplied unit price is stored as-is.
func (s *Service) AddItem(ctx context.Context, userID int64, productID, productName string, unitPrice int64, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	c, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve cart for user %d: %w", userID, err)
	}

	if err := s.store.UpsertItem(ctx, c.ID, productID, productName, unitPrice, quantity); err != nil {
		return fmt.Errorf("failed to add item to cart %d: %w", c.ID, err)
	}

	log.Printf("[Cart] Added %dx %s to cart %d", quantity, productID, c.ID)
	return nil
}

// UpdateItemQuantity sets a line's quantity exactly. A quantity of
// zero or less removes the line.
func (s *Service) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}
	if err := s.store.SetItemQuantity(ctx, itemID, quantity); err != nil {
		return fmt.Errorf("failed to update cart item %d: %w", itemID, err)
	}
	return nil
}

// RemoveItem deletes one cart line.
func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to remove cart item %d: %w", itemID, err)
	}
	return nil
}

// Items lists the cart's lines, most recently added first.
func (s *Service) Items(ctx context.Context, cartID int64) ([]Item, error) {
	return s.store.ItemsByCart(ctx, cartID)
}

// Clear deletes all lines from the cart; the cart row stays.
func (s *Service) Clear(ctx context.Context, cartID int64) error {
	if err := s.store.ClearItems(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart %d: %w", cartID, err)
	}
	return nil
}

// Total returns the cart's total in cents, 0 for an empty cart.
func (s *Service) Total(ctx context.Context, cartID int64) (int64, error) {
	return s.store.Total(ctx, cartID)
}

// ItemCount returns the summed quantity across the user's cart lines.
func (s *Service) ItemCount(ctx context.Context, userID int64) (int, error) {
	return s.store.ItemCount(ctx, userID)
}
