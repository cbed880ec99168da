package command

// Checkout turns the user's cart into an order and announces it.
type Checkout struct {
	UserID              int64  `json:"user_id"`
	ShippingAddress     string `json:"shipping_address"`
	SpecialInstructions string `json:"special_instructions"`
}

// AdjustInventory applies a signed stock change to one product.
type AdjustInventory struct {
	ProductID      string `json:"product_id"`
	QuantityChange int    `json:"quantity_change"`
	OperationType  string `json:"operation_type"`
	Reason         string `json:"reason"`
	Actor          string `json:"actor"`
}

// CancelOrder cancels an order and restocks sold lines when needed.
type CancelOrder struct {
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}
