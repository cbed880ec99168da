// Package mailbox defines the FIFO message channel used to hand off
// order and inventory events between the storefront and the processing
// worker.
package mailbox

import (
	"context"
	"errors"
)

var (
	// ErrEmpty is returned by Receive when no message is queued.
	ErrEmpty = errors.New("mailbox is empty")
)

// Channel names used by the application. Each name maps to its own
// underlying queue instance.
const (
	OrderChannel     = "orders"
	InventoryChannel = "inventory"
)

// Mailbox is a FIFO byte-message channel.
//
// Receive pops the oldest message and deletes it from the channel as a
// single step: once a message is returned to a caller it is gone. A
// caller that crashes before finishing its work loses the message.
// This is an at-most-once consumer contract.
type Mailbox interface {
	// Send enqueues a payload at the tail of the channel.
	Send(ctx context.Context, payload []byte) error
	// Receive pops the oldest payload, removing it from the channel.
	// Returns ErrEmpty when nothing is queued.
	Receive(ctx context.Context) ([]byte, error)
	// Peek returns up to max of the oldest payloads, order preserved,
	// without removing anything.
	Peek(ctx context.Context, max int) ([][]byte, error)
	// Length returns the number of messages currently queued.
	Length(ctx context.Context) (int, error)
	// Clear drops all messages unconditionally.
	Clear(ctx context.Context) error
}
