// Package query is the read side: it assembles the admin dashboard and
// queue previews without mutating anything.
package query

import (
	"context"
	"log"

	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/domain/customer"
	"github.com/example/abc-retail-cloud/internal/domain/order"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

type Handler struct {
	products  catalog.Store
	customers customer.Store
	orders    *order.Service
	orderQ    *mailbox.OrderQueue
	invQ      *mailbox.InventoryQueue

	// LowStockThreshold overrides DefaultLowStockThreshold when > 0.
	LowStockThreshold int
}

func NewHandler(
	products catalog.Store,
	customers customer.Store,
	orders *order.Service,
	orderQ *mailbox.OrderQueue,
	invQ *mailbox.InventoryQueue,
) *Handler {
	return &Handler{
		products:  products,
		customers: customers,
		orders:    orders,
		orderQ:    orderQ,
		invQ:      invQ,
	}
}

// Dashboard gathers the admin overview. Each source is read
// independently; a failing source is logged and left at its zero value
// so one outage does not blank the whole page.
func (h *Handler) Dashboard(ctx context.Context) *Dashboard {
	d := &Dashboard{}

	threshold := h.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	if products, err := h.products.List(ctx); err != nil {
		log.Printf("[Query] Failed to list products: %v", err)
	} else {
		d.ProductCount = len(products)
		for _, p := range products {
			if p.LowStock(threshold) {
				d.LowStockProducts = append(d.LowStockProducts, p)
			}
		}
	}

	if customers, err := h.customers.List(ctx); err != nil {
		log.Printf("[Query] Failed to list customers: %v", err)
	} else {
		d.CustomerCount = len(customers)
	}

	if orders, err := h.orders.All(ctx); err != nil {
		log.Printf("[Query] Failed to list orders: %v", err)
	} else {
		d.OrderCount = len(orders)
		for _, o := range orders {
			switch {
			case o.Status == order.StatusPending:
				d.PendingOrders++
			case o.Status == order.StatusProcessing:
				d.ProcessingOrders++
			case o.Status.Fulfilled():
				d.FulfilledOrders++
			case o.Status == order.StatusCancelled:
				d.CancelledOrders++
			}
		}
	}

	if revenue, err := h.orders.TotalRevenue(ctx); err != nil {
		log.Printf("[Query] Failed to compute revenue: %v", err)
	} else {
		d.TotalRevenue = revenue
	}

	if n, err := h.orderQ.Length(ctx); err != nil {
		log.Printf("[Query] Failed to measure order queue: %v", err)
	} else {
		d.OrderQueueLength = n
	}

	if n, err := h.invQ.Length(ctx); err != nil {
		log.Printf("[Query] Failed to measure inventory queue: %v", err)
	} else {
		d.InventoryQueueLength = n
	}

	if msgs, err := h.invQ.Peek(ctx, 10); err != nil {
		log.Printf("[Query] Failed to peek inventory queue: %v", err)
	} else {
		d.RecentActivity = msgs
	}

	return d
}

// PeekOrders previews up to max waiting order messages.
func (h *Handler) PeekOrders(ctx context.Context, max int) ([]mailbox.OrderMessage, error) {
	return h.orderQ.Peek(ctx, max)
}

// PeekInventory previews up to max pending audit messages.
func (h *Handler) PeekInventory(ctx context.Context, max int) ([]mailbox.InventoryMessage, error) {
	return h.invQ.Peek(ctx, max)
}

// OrderQueueLength returns the number of waiting order messages.
func (h *Handler) OrderQueueLength(ctx context.Context) (int, error) {
	return h.orderQ.Length(ctx)
}

// InventoryQueueLength returns the number of pending audit messages.
func (h *Handler) InventoryQueueLength(ctx context.Context) (int, error) {
	return h.invQ.Length(ctx)
}

// LowStock lists products at or below the threshold.
func (h *Handler) LowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	products, err := h.products.List(ctx)
	if err != nil {
		return nil, err
	}
	var low []catalog.Product
	for _, p := range products {
		if p.LowStock(threshold) {
			low = append(low, p)
		}
	}
	return low, nil
}
