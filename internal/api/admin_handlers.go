package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/abc-retail-cloud/internal/api/middleware"
	"github.com/example/abc-retail-cloud/internal/command"
	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/domain/customer"
	"github.com/example/abc-retail-cloud/internal/domain/order"
	"github.com/google/uuid"
)

// Admin Product Handlers

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		Price         int64  `json:"price"`
		StockQuantity int    `json:"stock_quantity"`
		ImageURL      string `json:"image_url"`
		Category      string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 || req.StockQuantity < 0 {
		respondJSONError(w, "Price and stock must not be negative", http.StatusBadRequest)
		return
	}

	p := &catalog.Product{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		Category:      req.Category,
	}
	if err := h.products.Put(r.Context(), p); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")

	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
		ImageURL    *string `json:"image_url"`
		Category    *string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		p.Category = *req.Category
	}

	if err := h.products.Update(r.Context(), p); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Admin Customer Handlers

func (h *Handlers) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/customers/")
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var c customer.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if c.Name == "" {
		respondJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}
	created := c.ID == ""
	if created {
		c.ID = uuid.New().String()
	}

	if err := h.customers.Put(r.Context(), &c); err != nil {
		respondDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, c)
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/customers/")
	if err := h.customers.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// Admin Order Handlers

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		orders, err := h.orders.ByStatus(r.Context(), order.Status(status))
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, orders)
		return
	}

	orders, err := h.orders.All(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/admin/orders/"), "/status")
	orderID, ok := parseID(w, id)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, order.Status(req.Status)); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// ProcessNextOrder fulfils one queued order.
func (h *Handlers) ProcessNextOrder(w http.ResponseWriter, r *http.Request) {
	msg, err := h.cmd.ProcessNextOrder(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

// Admin Queue Handlers

func (h *Handlers) PeekOrderQueue(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.queries.PeekOrders(r.Context(), 32)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	length, err := h.queries.OrderQueueLength(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"length": length, "messages": msgs})
}

func (h *Handlers) ClearOrderQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.cmd.ClearOrderQueue(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Order queue cleared"})
}

func (h *Handlers) PeekInventoryQueue(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.queries.PeekInventory(r.Context(), 32)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	length, err := h.queries.InventoryQueueLength(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"length": length, "messages": msgs})
}

func (h *Handlers) ClearInventoryQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.cmd.ClearInventoryQueue(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Inventory queue cleared"})
}

// Admin Inventory Handlers

func (h *Handlers) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	var cmd command.AdjustInventory
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if cmd.Actor == "" {
		if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
			cmd.Actor = claims.Email
		}
	}

	msg, err := h.cmd.AdjustInventory(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msg)
}

// Admin File Handlers

func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSONError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key := header.Filename
	if key == "" {
		key = uuid.New().String()
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.files.Upload(r.Context(), key, contentType, file); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	objects, err := h.files.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, objects)
}

func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	key := extractPathParam(r.URL.Path, "/admin/files/")
	if key == "" {
		respondJSONError(w, "Missing key", http.StatusBadRequest)
		return
	}
	if err := h.files.Delete(r.Context(), key); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

// Dashboard

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queries.Dashboard(r.Context()))
}
