// Package api is the HTTP surface over the command and query handlers.
package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/abc-retail-cloud/internal/api/middleware"
	"github.com/example/abc-retail-cloud/internal/auth"
	"github.com/example/abc-retail-cloud/internal/domain/user"
)

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.AuthMiddleware(jwtService)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(user.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("/api/auth/register", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: authHandlers.Register,
	}))
	mux.HandleFunc("/api/auth/login", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: authHandlers.Login,
	}))
	mux.HandleFunc("/api/auth/logout", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: authHandlers.Logout,
	}))
	mux.HandleFunc("/api/auth/refresh", methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: authHandlers.Refresh,
	}))
	mux.Handle("/api/auth/me", authed(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: authHandlers.Me,
	})))

	// Products (public browse)
	mux.HandleFunc("/products", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: handlers.GetProducts,
	}))
	mux.HandleFunc("/products/", methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: handlers.GetProduct,
	}))

	// Cart
	mux.Handle("/cart", authed(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: handlers.GetCart,
	})))
	mux.Handle("/cart/items", authed(methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: handlers.AddToCart,
	})))
	mux.Handle("/cart/items/", authed(methodHandler(map[string]http.HandlerFunc{
		http.MethodPut:    handlers.UpdateCartItem,
		http.MethodDelete: handlers.RemoveFromCart,
	})))

	// Orders
	mux.Handle("/orders", authed(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  handlers.GetOrders,
		http.MethodPost: handlers.Checkout,
	})))
	mux.Handle("/orders/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/cancel") && r.Method == http.MethodPost:
			handlers.CancelOrder(w, r)
		case r.Method == http.MethodGet:
			handlers.GetOrder(w, r)
		default:
			respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Admin: catalog
	mux.Handle("/admin/products", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: handlers.CreateProduct,
	})))
	mux.Handle("/admin/products/", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodPut:    handlers.UpdateProduct,
		http.MethodDelete: handlers.DeleteProduct,
	})))

	// Admin: customers
	mux.Handle("/admin/customers", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  handlers.GetCustomers,
		http.MethodPost: handlers.UpsertCustomer,
		http.MethodPut:  handlers.UpsertCustomer,
	})))
	mux.Handle("/admin/customers/", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:    handlers.GetCustomer,
		http.MethodDelete: handlers.DeleteCustomer,
	})))

	// Admin: orders
	mux.Handle("/admin/orders", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: handlers.GetAllOrders,
	})))
	mux.Handle("/admin/orders/process-next", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: handlers.ProcessNextOrder,
	})))
	mux.Handle("/admin/orders/", admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/status") && r.Method == http.MethodPut {
			handlers.UpdateOrderStatus(w, r)
			return
		}
		respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})))

	// Admin: queues
	mux.Handle("/admin/queues/orders", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:    handlers.PeekOrderQueue,
		http.MethodDelete: handlers.ClearOrderQueue,
	})))
	mux.Handle("/admin/queues/inventory", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:    handlers.PeekInventoryQueue,
		http.MethodDelete: handlers.ClearInventoryQueue,
	})))

	// Admin: inventory
	mux.Handle("/admin/inventory/adjust", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodPost: handlers.AdjustInventory,
	})))

	// Admin: files
	mux.Handle("/admin/files", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet:  handlers.ListFiles,
		http.MethodPost: handlers.UploadFile,
	})))
	mux.Handle("/admin/files/", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodDelete: handlers.DeleteFile,
	})))

	// Admin: dashboard
	mux.Handle("/admin/dashboard", admin(methodHandler(map[string]http.HandlerFunc{
		http.MethodGet: handlers.GetDashboard,
	})))

	return withLogging(mux)
}

// methodHandler dispatches by HTTP method, 405 otherwise.
func methodHandler(routes map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method]; ok {
			h(w, r)
			return
		}
		respondJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
