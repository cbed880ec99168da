// Package worker drains the order mailbox in the background.
package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/abc-retail-cloud/internal/command"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

const defaultPollInterval = 5 * time.Second

// Processor polls the order mailbox and fulfils one order per message
// through the command handler.
type Processor struct {
	handler      *command.Handler
	pollInterval time.Duration
}

func NewProcessor(handler *command.Handler, pollInterval time.Duration) *Processor {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Processor{handler: handler, pollInterval: pollInterval}
}

// Run processes orders until ctx is cancelled. An empty queue sleeps
// for the poll interval; a processing failure is logged and the loop
// keeps going.
func (p *Processor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	log.Printf("[Worker] Started, polling every %s", p.pollInterval)
	for {
		if err := p.drain(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			log.Println("[Worker] Shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain processes messages until the queue is empty.
func (p *Processor) drain(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg, err := p.handler.ProcessNextOrder(ctx)
		if errors.Is(err, mailbox.ErrEmpty) {
			return nil
		}
		if err != nil {
			log.Printf("[Worker] Failed to process order: %v", err)
			return nil
		}
		log.Printf("[Worker] Processed order %s", msg.OrderID)
	}
}
