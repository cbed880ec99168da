package query

import (
	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

// DefaultLowStockThreshold marks products needing a restock on the
// dashboard.
const DefaultLowStockThreshold = 10

// Dashboard is the admin overview assembled from every backing store.
type Dashboard struct {
	ProductCount  int `json:"product_count"`
	CustomerCount int `json:"customer_count"`
	OrderCount    int `json:"order_count"`

	PendingOrders    int `json:"pending_orders"`
	ProcessingOrders int `json:"processing_orders"`
	FulfilledOrders  int `json:"fulfilled_orders"`
	CancelledOrders  int `json:"cancelled_orders"`

	TotalRevenue int64 `json:"total_revenue"` // cents

	OrderQueueLength     int `json:"order_queue_length"`
	InventoryQueueLength int `json:"inventory_queue_length"`

	LowStockProducts []catalog.Product          `json:"low_stock_products"`
	RecentActivity   []mailbox.InventoryMessage `json:"recent_activity"`
}
