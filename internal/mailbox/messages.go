package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Inventory operation tags recorded on audit messages.
const (
	OpSale           = "SALE"
	OpRestock        = "RESTOCK"
	OpAdjustment     = "ADJUSTMENT"
	OpOrderCancelled = "ORDER_CANCELLED"
)

// OrderLine is a denormalized line item carried inside an OrderMessage.
type OrderLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // cents
}

// OrderMessage is the queue representation of an order. It is derived
// from the SQL order at publish time and never mutated independently;
// the SQL order stays authoritative.
type OrderMessage struct {
	OrderID             string      `json:"order_id"`
	UserID              int64       `json:"user_id"`
	CustomerName        string      `json:"customer_name"`
	Items               []OrderLine `json:"items"`
	Total               int64       `json:"total"` // cents
	Status              string      `json:"status"`
	OrderDate           time.Time   `json:"order_date"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
}

// InventoryMessage is a write-once audit record of a stock mutation.
type InventoryMessage struct {
	MessageID      string    `json:"message_id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	OperationType  string    `json:"operation_type"`
	QuantityChange int       `json:"quantity_change"` // signed, possibly clamped
	PreviousStock  int       `json:"previous_stock"`
	NewStock       int       `json:"new_stock"`
	Reason         string    `json:"reason,omitempty"`
	ProcessedBy    string    `json:"processed_by"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewInventoryMessage builds an audit message with a fresh id and
// timestamp. ProcessedBy defaults to "system" when actor is empty.
func NewInventoryMessage(productID, productName, op string, change, prev, next int, reason, actor string) *InventoryMessage {
	if actor == "" {
		actor = "system"
	}
	return &InventoryMessage{
		MessageID:      uuid.New().String(),
		ProductID:      productID,
		ProductName:    productName,
		OperationType:  op,
		QuantityChange: change,
		PreviousStock:  prev,
		NewStock:       next,
		Reason:         reason,
		ProcessedBy:    actor,
		Timestamp:      time.Now().UTC(),
	}
}

// OrderQueue is a typed view over a Mailbox carrying OrderMessages.
type OrderQueue struct {
	mb Mailbox
}

func NewOrderQueue(mb Mailbox) *OrderQueue {
	return &OrderQueue{mb: mb}
}

func (q *OrderQueue) Send(ctx context.Context, msg *OrderMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode order message: %w", err)
	}
	return q.mb.Send(ctx, data)
}

// Receive pops the oldest order message. The message is removed from
// the channel even if the caller fails afterward.
func (q *OrderQueue) Receive(ctx context.Context) (*OrderMessage, error) {
	data, err := q.mb.Receive(ctx)
	if err != nil {
		return nil, err
	}
	var msg OrderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode order message: %w", err)
	}
	return &msg, nil
}

// Peek previews up to max pending order messages. Malformed entries
// are skipped rather than aborting the scan.
func (q *OrderQueue) Peek(ctx context.Context, max int) ([]OrderMessage, error) {
	raw, err := q.mb.Peek(ctx, max)
	if err != nil {
		return nil, err
	}
	msgs := make([]OrderMessage, 0, len(raw))
	for _, data := range raw {
		var msg OrderMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (q *OrderQueue) Length(ctx context.Context) (int, error) { return q.mb.Length(ctx) }
func (q *OrderQueue) Clear(ctx context.Context) error         { return q.mb.Clear(ctx) }

// InventoryQueue is a typed view over a Mailbox carrying
// InventoryMessages.
type InventoryQueue struct {
	mb Mailbox
}

func NewInventoryQueue(mb Mailbox) *InventoryQueue {
	return &InventoryQueue{mb: mb}
}

func (q *InventoryQueue) Send(ctx context.Context, msg *InventoryMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode inventory message: %w", err)
	}
	return q.mb.Send(ctx, data)
}

func (q *InventoryQueue) Receive(ctx context.Context) (*InventoryMessage, error) {
	data, err := q.mb.Receive(ctx)
	if err != nil {
		return nil, err
	}
	var msg InventoryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode inventory message: %w", err)
	}
	return &msg, nil
}

func (q *InventoryQueue) Peek(ctx context.Context, max int) ([]InventoryMessage, error) {
	raw, err := q.mb.Peek(ctx, max)
	if err != nil {
		return nil, err
	}
	msgs := make([]InventoryMessage, 0, len(raw))
	for _, data := range raw {
		var msg InventoryMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (q *InventoryQueue) Length(ctx context.Context) (int, error) { return q.mb.Length(ctx) }
func (q *InventoryQueue) Clear(ctx context.Context) error         { return q.mb.Clear(ctx) }
