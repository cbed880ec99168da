package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/abc-retail-cloud/internal/auth"
	"github.com/example/abc-retail-cloud/internal/blob"
	"github.com/example/abc-retail-cloud/internal/command"
	"github.com/example/abc-retail-cloud/internal/domain/cart"
	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	"github.com/example/abc-retail-cloud/internal/domain/inventory"
	"github.com/example/abc-retail-cloud/internal/domain/order"
	"github.com/example/abc-retail-cloud/internal/domain/user"
	memmailbox "github.com/example/abc-retail-cloud/internal/infrastructure/mailbox"
	"github.com/example/abc-retail-cloud/internal/infrastructure/store/mocks"
	"github.com/example/abc-retail-cloud/internal/mailbox"
	"github.com/example/abc-retail-cloud/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	server   http.Handler
	jwt      *auth.JWTService
	users    *user.Service
	products *mocks.MockProductStore
	orders   *order.Service
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	cartStore := mocks.NewMockCartStore()
	carts := cart.NewService(cartStore)
	orders := order.NewService(mocks.NewMockOrderStore(cartStore), carts)
	users := user.NewService(mocks.NewMockUserStore())
	products := mocks.NewMockProductStore()
	customers := mocks.NewMockCustomerStore()

	orderMB := memmailbox.NewMemory()
	invMB := memmailbox.NewMemory()
	orderQueue := mailbox.NewOrderQueue(orderMB)
	invQueue := mailbox.NewInventoryQueue(invMB)
	ledger := inventory.NewLedger(products, invQueue, nil)

	cmd := command.NewHandler(orders, users, ledger, orderQueue, invQueue, nil, nil)
	queries := query.NewHandler(products, customers, orders, orderQueue, invQueue)
	jwtService := auth.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)

	handlers := NewHandlers(cmd, queries, carts, orders, products, customers, blob.NewMemory())
	authHandlers := NewAuthHandlers(users, jwtService)

	return &apiEnv{
		server:   NewRouter(handlers, authHandlers, jwtService),
		jwt:      jwtService,
		users:    users,
		products: products,
		orders:   orders,
	}
}

func (e *apiEnv) token(t *testing.T, role string) string {
	t.Helper()
	u, err := e.users.Register(context.Background(), role+"@example.com", "password123", "Test", "User", "")
	require.NoError(t, err)
	u.Role = role
	token, _, err := e.jwt.GenerateAccessToken(u.ID, u.Email, role)
	require.NoError(t, err)
	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestAPI_ProductBrowse_Public(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", Price: 1000, StockQuantity: 5})

	rec := env.do(t, http.MethodGet, "/products", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func TestAPI_GetProduct_NotFound(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/products/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Cart_RequiresAuth(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/cart", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CartAndCheckoutFlow(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", Price: 1000, StockQuantity: 5})
	token := env.token(t, user.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/cart/items", token, map[string]any{
		"product_id": "prod-1",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2000), view.Total)

	rec = env.do(t, http.MethodPost, "/orders", token, map[string]any{
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(2000), o.Total)

	// Checkout emptied the cart.
	rec = env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
}

func TestAPI_Checkout_EmptyCart(t *testing.T) {
	env := newAPIEnv(t)
	token := env.token(t, user.RoleCustomer)

	rec := env.do(t, http.MethodPost, "/orders", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetOrder_OtherUsersOrderForbidden(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", Price: 1000, StockQuantity: 5})

	owner := env.token(t, user.RoleCustomer)
	rec := env.do(t, http.MethodPost, "/cart/items", owner, map[string]any{"product_id": "prod-1", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/orders", owner, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	otherUser, err := env.users.Register(context.Background(), "other@example.com", "password123", "Other", "User", "")
	require.NoError(t, err)
	other, _, err := env.jwt.GenerateAccessToken(otherUser.ID, otherUser.Email, user.RoleCustomer)
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/orders/1", other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_AdminEndpoints_RequireAdminRole(t *testing.T) {
	env := newAPIEnv(t)
	customerToken := env.token(t, user.RoleCustomer)

	rec := env.do(t, http.MethodGet, "/admin/dashboard", customerToken, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_Admin_ProcessNextOrder(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", Price: 1000, StockQuantity: 5})

	customerToken := env.token(t, user.RoleCustomer)
	rec := env.do(t, http.MethodPost, "/cart/items", customerToken, map[string]any{"product_id": "prod-1", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	adminToken := env.token(t, user.RoleAdmin)
	rec = env.do(t, http.MethodPost, "/admin/orders/process-next", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Queue is now empty.
	rec = env.do(t, http.MethodPost, "/admin/orders/process-next", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Admin_UpdateOrderStatus_IllegalTransition(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", Price: 1000, StockQuantity: 5})

	customerToken := env.token(t, user.RoleCustomer)
	rec := env.do(t, http.MethodPost, "/cart/items", customerToken, map[string]any{"product_id": "prod-1", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	adminToken := env.token(t, user.RoleAdmin)
	rec = env.do(t, http.MethodPut, "/admin/orders/1/status", adminToken, map[string]string{"status": "Completed"})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_Admin_CreateProduct(t *testing.T) {
	env := newAPIEnv(t)
	adminToken := env.token(t, user.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/admin/products", adminToken, map[string]any{
		"name":           "Widget",
		"price":          1500,
		"stock_quantity": 10,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(1500), p.Price)
	assert.Equal(t, int64(1), p.Version)
}

func TestAPI_Admin_AdjustInventory_Clamp(t *testing.T) {
	env := newAPIEnv(t)
	env.products.Seed(catalog.Product{ID: "prod-1", Name: "Widget", StockQuantity: 30})
	adminToken := env.token(t, user.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/admin/inventory/adjust", adminToken, map[string]any{
		"product_id":      "prod-1",
		"quantity_change": -100,
		"operation_type":  "SALE",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var msg mailbox.InventoryMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, 0, msg.NewStock)
	assert.Equal(t, -30, msg.QuantityChange)
}

func TestAPI_AuthFlow_RegisterLoginMe(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "ada@example.com",
		"password":   "password123",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var accessToken string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	meRec := httptest.NewRecorder()
	env.server.ServeHTTP(meRec, req)

	require.Equal(t, http.StatusOK, meRec.Code)
	var me UserResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Equal(t, "Ada Lovelace", me.Name)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Register_DuplicateEmail(t *testing.T) {
	env := newAPIEnv(t)
	body := map[string]string{
		"email":      "dup@example.com",
		"password":   "password123",
		"first_name": "Dup",
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
