package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/abc-retail-cloud/internal/api/middleware"
	"github.com/example/abc-retail-cloud/internal/blob"
	"github.com/example/abc-retail-cloud/internal/command"
	"github.com/example/abc-retail-cloud/internal/domain/cart"
	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/domain/customer"
	"github.com/example/abc-retail-cloud/internal/domain/inventory"
	"github.com/example/abc-retail-cloud/internal/domain/order"
	"github.com/example/abc-retail-cloud/internal/domain/user"
	"github.com/example/abc-retail-cloud/internal/mailbox"
	"github.com/example/abc-retail-cloud/internal/query"
)

type Handlers struct {
	cmd       *command.Handler
	queries   *query.Handler
	carts     *cart.Service
	orders    *order.Service
	products  catalog.Store
	customers customer.Store
	files     blob.Store
}

func NewHandlers(
	cmd *command.Handler,
	queries *query.Handler,
	carts *cart.Service,
	orders *order.Service,
	products catalog.Store,
	customers customer.Store,
	files blob.Store,
) *Handlers {
	return &Handlers{
		cmd:       cmd,
		queries:   queries,
		carts:     carts,
		orders:    orders,
		products:  products,
		customers: customers,
		files:     files,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Cart Handlers

type cartView struct {
	Cart  *cart.Cart  `json:"cart"`
	Items []cart.Item `json:"items"`
	Total int64       `json:"total"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	c, err := h.carts.GetOrCreate(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	items, err := h.carts.Items(r.Context(), c.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	total, err := h.carts.Total(r.Context(), c.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView{Cart: c, Items: items, Total: total})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The line snapshots the catalog's current name and price.
	p, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.carts.AddItem(r.Context(), userID, p.ID, p.Name, p.Price, req.Quantity); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseID(w, extractPathParam(r.URL.Path, "/cart/items/"))
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.carts.UpdateItemQuantity(r.Context(), itemID, req.Quantity); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseID(w, extractPathParam(r.URL.Path, "/cart/items/"))
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), itemID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Order Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ShippingAddress     string `json:"shipping_address"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	o, err := h.cmd.Checkout(r.Context(), command.Checkout{
		UserID:              userID,
		ShippingAddress:     req.ShippingAddress,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	orders, err := h.orders.ByUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/orders/"), "/cancel")
	orderID, ok := parseID(w, id)
	if !ok {
		return
	}

	o, err := h.orders.ByID(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Users only see their own orders; admins see all.
	userID := middleware.GetUserID(r.Context())
	if o.UserID != userID && !isAdmin(r) {
		respondJSONError(w, "Forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/orders/"), "/cancel")
	orderID, ok := parseID(w, id)
	if !ok {
		return
	}

	o, err := h.orders.ByID(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if o.UserID != userID && !isAdmin(r) {
		respondJSONError(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.cmd.CancelOrder(r.Context(), command.CancelOrder{OrderID: orderID, Reason: req.Reason}); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondJSONError(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// respondDomainError maps domain errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, blob.ErrNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, mailbox.ErrEmpty):
		respondJSONError(w, "Queue is empty", http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, catalog.ErrVersionConflict):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, inventory.ErrZeroChange),
		errors.Is(err, command.ErrInvalidOperation):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

// isAdmin checks if the current user has admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == user.RoleAdmin
}
