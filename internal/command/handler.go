// Package command is the write-side orchestrator: it composes the cart,
// order, and inventory services with the mailboxes, the order log, and
// the event bus.
package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/example/abc-retail-cloud/internal/domain/inventory"
	"github.com/example/abc-retail-cloud/internal/domain/order"
	"github.com/example/abc-retail-cloud/internal/domain/user"
	"github.com/example/abc-retail-cloud/internal/events"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

var (
	ErrInvalidOperation = errors.New("unknown inventory operation type")
)

// OrderRecorder appends order messages to the durable order log.
type OrderRecorder interface {
	Record(ctx context.Context, msg *mailbox.OrderMessage) error
}

// EventPublisher publishes committed events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	orders         *order.Service
	users          *user.Service
	ledger         *inventory.Ledger
	orderQueue     *mailbox.OrderQueue
	inventoryQueue *mailbox.InventoryQueue
	orderLog       OrderRecorder  // optional
	producer       EventPublisher // optional
}

func NewHandler(
	orders *order.Service,
	users *user.Service,
	ledger *inventory.Ledger,
	orderQueue *mailbox.OrderQueue,
	inventoryQueue *mailbox.InventoryQueue,
	orderLog OrderRecorder,
	producer EventPublisher,
) *Handler {
	return &Handler{
		orders:         orders,
		users:          users,
		ledger:         ledger,
		orderQueue:     orderQueue,
		inventoryQueue: inventoryQueue,
		orderLog:       orderLog,
		producer:       producer,
	}
}

// Checkout creates an order from the user's cart, then announces it:
// an OrderMessage goes to the order mailbox and the order log, and an
// OrderPlaced event goes to the bus. The announcements are best-effort;
// the checkout transaction has already committed when they run, and the
// SQL order stays authoritative either way.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (*order.Order, error) {
	o, err := h.orders.CreateFromCart(ctx, cmd.UserID, cmd.ShippingAddress, cmd.SpecialInstructions)
	if err != nil {
		return nil, err
	}

	var email, customerName string
	if u, err := h.users.Get(ctx, cmd.UserID); err == nil {
		email = u.Email
		customerName = u.Name()
	}

	msg := orderMessage(o, customerName)
	if err := h.orderQueue.Send(ctx, msg); err != nil {
		log.Printf("[Command] Failed to queue order %d: %v", o.ID, err)
	}

	if h.orderLog != nil {
		if err := h.orderLog.Record(ctx, msg); err != nil {
			log.Printf("[Command] Failed to record order %d in order log: %v", o.ID, err)
		}
	}

	if h.producer != nil {
		lines := make([]events.OrderLine, len(o.Items))
		for i, it := range o.Items {
			lines[i] = events.OrderLine{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			}
		}
		env, err := events.Wrap(events.TypeOrderPlaced, events.OrderPlaced{
			OrderID: o.ID,
			UserID:  o.UserID,
			Email:   email,
			Total:   o.Total,
			Items:   lines,
		})
		if err == nil {
			if err := h.producer.Publish(ctx, strconv.FormatInt(o.ID, 10), env); err != nil {
				log.Printf("[Command] Failed to publish OrderPlaced for %d: %v", o.ID, err)
			}
		}
	}

	return o, nil
}

// orderMessage derives the queue representation from the SQL order at
// publish time.
func orderMessage(o *order.Order, customerName string) *mailbox.OrderMessage {
	lines := make([]mailbox.OrderLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = mailbox.OrderLine{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return &mailbox.OrderMessage{
		OrderID:             strconv.FormatInt(o.ID, 10),
		UserID:              o.UserID,
		CustomerName:        customerName,
		Items:               lines,
		Total:               o.Total,
		Status:              string(o.Status),
		OrderDate:           o.OrderDate,
		SpecialInstructions: o.SpecialInstructions,
	}
}

// ProcessNextOrder dequeues one order message and fulfils it: the SQL
// order moves to Processing, every line is deducted from stock as a
// SALE, and the order lands on PROCESSED. A message for an order that
// is no longer Pending is dropped; the queue delivers at most once, so
// the order's own status is the idempotency guard.
func (h *Handler) ProcessNextOrder(ctx context.Context) (*mailbox.OrderMessage, error) {
	msg, err := h.orderQueue.Receive(ctx)
	if err != nil {
		return nil, err
	}

	orderID, err := strconv.ParseInt(msg.OrderID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed order id %q in queue message: %w", msg.OrderID, err)
	}

	o, err := h.orders.ByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Printf("[Command] Dropping message for unknown order %d", orderID)
			return msg, nil
		}
		return nil, err
	}
	if o.Status != order.StatusPending {
		log.Printf("[Command] Dropping message for order %d already in %s", orderID, o.Status)
		return msg, nil
	}

	if err := h.orders.UpdateStatus(ctx, orderID, order.StatusProcessing); err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("order %d", orderID)
	for _, it := range o.Items {
		if _, err := h.ledger.Adjust(ctx, it.ProductID, -it.Quantity, mailbox.OpSale, reason, "worker"); err != nil {
			return nil, fmt.Errorf("failed to deduct stock for order %d: %w", orderID, err)
		}
	}

	if err := h.orders.UpdateStatus(ctx, orderID, order.StatusProcessed); err != nil {
		return nil, err
	}

	log.Printf("[Command] Processed order %d (%d lines)", orderID, len(o.Items))
	return msg, nil
}

// AdjustInventory applies a manual stock change through the ledger.
func (h *Handler) AdjustInventory(ctx context.Context, cmd AdjustInventory) (*mailbox.InventoryMessage, error) {
	switch cmd.OperationType {
	case mailbox.OpSale, mailbox.OpRestock, mailbox.OpAdjustment, mailbox.OpOrderCancelled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, cmd.OperationType)
	}
	return h.ledger.Adjust(ctx, cmd.ProductID, cmd.QuantityChange, cmd.OperationType, cmd.Reason, cmd.Actor)
}

// CancelOrder cancels an order. When the order had already entered
// Processing its lines may have been sold, so each one is restocked
// with an ORDER_CANCELLED adjustment after the cancel commits.
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) error {
	o, err := h.orders.ByID(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	wasProcessing := o.Status == order.StatusProcessing

	if err := h.orders.Cancel(ctx, cmd.OrderID); err != nil {
		return err
	}

	if wasProcessing {
		reason := cmd.Reason
		if reason == "" {
			reason = fmt.Sprintf("order %d cancelled", cmd.OrderID)
		}
		for _, it := range o.Items {
			if _, err := h.ledger.Adjust(ctx, it.ProductID, it.Quantity, mailbox.OpOrderCancelled, reason, "system"); err != nil {
				log.Printf("[Command] Failed to restock %s after cancelling order %d: %v", it.ProductID, cmd.OrderID, err)
			}
		}
	}
	return nil
}

// ClearOrderQueue drops all pending order messages.
func (h *Handler) ClearOrderQueue(ctx context.Context) error {
	return h.orderQueue.Clear(ctx)
}

// ClearInventoryQueue drops all pending inventory audit messages.
func (h *Handler) ClearInventoryQueue(ctx context.Context) error {
	return h.inventoryQueue.Clear(ctx)
}
