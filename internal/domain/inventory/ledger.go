// Package inventory owns stock adjustment with non-negative clamping
// and the audit trail of every mutation.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/events"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

var (
	ErrZeroChange = errors.New("quantity change must not be zero")
)

// EventPublisher publishes committed events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Ledger adjusts product stock and records every mutation as an
// InventoryMessage on the inventory mailbox.
type Ledger struct {
	products catalog.Store
	queue    *mailbox.InventoryQueue
	producer EventPublisher // optional
}

func NewLedger(products catalog.Store, queue *mailbox.InventoryQueue, producer EventPublisher) *Ledger {
	return &Ledger{products: products, queue: queue, producer: producer}
}

// Adjust applies a signed stock change to a product. A decrement that
// would push stock below zero is clamped: stock lands on 0 and the
// recorded change shrinks to -previousStock rather than being
// rejected. The audit message is sent to the mailbox first; the stock
// write happens only after a successful send. A stock-write failure
// after a successful send leaves the ledger ahead of the counter
// (known gap, inherited from the source system).
func (l *Ledger) Adjust(ctx context.Context, productID string, quantityChange int, operationType, reason, actor string) (*mailbox.InventoryMessage, error) {
	if quantityChange == 0 {
		return nil, ErrZeroChange
	}

	p, err := l.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	previous := p.StockQuantity
	next := previous + quantityChange
	if next < 0 {
		log.Printf("[Inventory] Clamping %s: stock %d, requested %d", productID, previous, quantityChange)
		next = 0
		quantityChange = -previous
	}

	msg := mailbox.NewInventoryMessage(productID, p.Name, operationType, quantityChange, previous, next, reason, actor)

	if err := l.queue.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to publish inventory message for %s: %w", productID, err)
	}

	p.StockQuantity = next
	if err := l.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist stock for %s: %w", productID, err)
	}

	log.Printf("[Inventory] %s %s: %d -> %d (%+d)", operationType, productID, previous, next, quantityChange)

	if l.producer != nil {
		env, err := events.Wrap(events.TypeInventoryAdjusted, events.InventoryAdjusted{
			ProductID:      productID,
			ProductName:    p.Name,
			OperationType:  operationType,
			QuantityChange: quantityChange,
			PreviousStock:  previous,
			NewStock:       next,
		})
		if err == nil {
			if err := l.producer.Publish(ctx, productID, env); err != nil {
				log.Printf("[Inventory] Failed to publish event for %s: %v", productID, err)
			}
		}
	}

	return msg, nil
}

// Peek previews up to max pending audit messages without consuming.
func (l *Ledger) Peek(ctx context.Context, max int) ([]mailbox.InventoryMessage, error) {
	return l.queue.Peek(ctx, max)
}

// Receive dequeues exactly one audit message, or mailbox.ErrEmpty.
func (l *Ledger) Receive(ctx context.Context) (*mailbox.InventoryMessage, error) {
	return l.queue.Receive(ctx)
}

// QueueLength returns the number of pending audit messages.
func (l *Ledger) QueueLength(ctx context.Context) (int, error) {
	return l.queue.Length(ctx)
}

// ClearQueue drops all pending audit messages.
func (l *Ledger) ClearQueue(ctx context.Context) error {
	return l.queue.Clear(ctx)
}
