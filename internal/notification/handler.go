// Package notification turns bus events into customer email.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/abc-retail-cloud/internal/domain/user"
	"github.com/example/abc-retail-cloud/internal/email"
	"github.com/example/abc-retail-cloud/internal/events"
)

// Mailer sends the order confirmation; satisfied by email.Service.
type Mailer interface {
	SendOrderConfirmation(to string, orderID int64, total int64, items []email.OrderItem) error
}

// Handler consumes bus events and sends notifications
type Handler struct {
	mailer Mailer
	users  *user.Service
}

func NewHandler(mailer Mailer, users *user.Service) *Handler {
	return &Handler{
		mailer: mailer,
		users:  users,
	}
}

// HandleEvent processes one event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if env.Type == events.TypeOrderPlaced {
		return h.handleOrderPlaced(ctx, env)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, env events.Envelope) error {
	var e events.OrderPlaced
	if err := json.Unmarshal(env.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %d, user %d", e.OrderID, e.UserID)

	// The event carries the email when the publisher knew it; fall back
	// to the user store otherwise.
	to := e.Email
	if to == "" {
		u, err := h.users.Get(ctx, e.UserID)
		if err != nil {
			log.Printf("[Notifier] Cannot resolve email for user %d: %v", e.UserID, err)
			return nil
		}
		to = u.Email
	}

	emailItems := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	if err := h.mailer.SendOrderConfirmation(to, e.OrderID, e.Total, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", to, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %d", to, e.OrderID)
	return nil
}
