// Package events defines the messages published to the Kafka event
// bus after state changes commit.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeOrderPlaced       = "OrderPlaced"
	TypeInventoryAdjusted = "InventoryAdjusted"
)

// Envelope wraps every published event with its type and timestamp so
// consumers can route without decoding the payload.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Wrap builds an envelope around a typed event payload.
func Wrap(eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	return &Envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// OrderLine is a denormalized line inside an OrderPlaced event.
type OrderLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// OrderPlaced is published after a checkout transaction commits.
type OrderPlaced struct {
	OrderID int64       `json:"order_id"`
	UserID  int64       `json:"user_id"`
	Email   string      `json:"email,omitempty"`
	Total   int64       `json:"total"`
	Items   []OrderLine `json:"items"`
}

// InventoryAdjusted is published after a stock mutation persists.
type InventoryAdjusted struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	OperationType  string `json:"operation_type"`
	QuantityChange int    `json:"quantity_change"`
	PreviousStock  int    `json:"previous_stock"`
	NewStock       int    `json:"new_stock"`
}
