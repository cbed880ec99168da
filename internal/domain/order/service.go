package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/cart"
)

// Service implements the order workflow on top of the cart service and
// the order store.
type Service struct {
	store Store
	carts *cart.Service
}

func NewService(store Store, carts *cart.Service) *Service {
	return &Service{store: store, carts: carts}
}

// CreateFromCart turns the user's cart into an order. An empty cart
// fails fast before any transaction is opened. Otherwise the header,
// the item snapshots, and the cart-line deletion commit atomically: no
// partial state is observable, and a failure leaves the cart intact.
func (s *Service) CreateFromCart(ctx context.Context, userID int64, shippingAddress, specialInstructions string) (*Order, error) {
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.Items(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart %d: %w", c.ID, err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	items := make([]Item, len(lines))
	for i, line := range lines {
		total += line.LineTotal()
		items[i] = Item{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	o := &Order{
		UserID:              userID,
		OrderDate:           time.Now().UTC(),
		Status:              StatusPending,
		Total:               total,
		ShippingAddress:     shippingAddress,
		SpecialInstructions: specialInstructions,
		Items:               items,
	}

	if err := s.store.Create(ctx, o, c.ID); err != nil {
		return nil, fmt.Errorf("failed to create order for user %d: %w", userID, err)
	}

	log.Printf("[Order] Created order %d for user %d (%d items, total %d)", o.ID, userID, len(items), total)
	return o, nil
}

// ByID returns the order with items populated.
func (s *Service) ByID(ctx context.Context, orderID int64) (*Order, error) {
	return s.store.ByID(ctx, orderID)
}

// ByUser returns the user's orders, newest first.
func (s *Service) ByUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.store.ByUser(ctx, userID)
}

// All returns every order, newest first.
func (s *Service) All(ctx context.Context) ([]Order, error) {
	return s.store.All(ctx)
}

// ByStatus returns orders in the given status, newest first.
func (s *Service) ByStatus(ctx context.Context, status Status) ([]Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.store.ByStatus(ctx, status)
}

// UpdateStatus moves an order to newStatus. Illegal transitions are
// rejected. Entering a fulfilled state stamps the processed date; a
// stamp, once set, is never cleared.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, newStatus Status) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}

	o, err := s.store.ByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Status.CanTransition(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}

	var processedAt *time.Time
	if newStatus.Fulfilled() && o.ProcessedAt == nil {
		now := time.Now().UTC()
		processedAt = &now
	}

	if err := s.store.SetStatus(ctx, orderID, newStatus, processedAt); err != nil {
		return fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}

	log.Printf("[Order] Order %d: %s -> %s", orderID, o.Status, newStatus)
	return nil
}

// Cancel moves the order to Cancelled.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// TotalRevenue sums totals over fulfilled orders, in cents.
func (s *Service) TotalRevenue(ctx context.Context) (int64, error) {
	return s.store.TotalRevenue(ctx)
}

// CountByStatus counts orders currently in the given status.
func (s *Service) CountByStatus(ctx context.Context, status Status) (int, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	return s.store.CountByStatus(ctx, status)
}
