package router

import (
	"net/http"
	"strings"

	"shopkart/internal/handler"
	"shopkart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart handler function
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && isRoot(r.URL.Path, "/api/cart"):
			cartHandler.Create(w, r)
		case r.Method == http.MethodGet && isRoot(r.URL.Path, "/api/cart"):
			cartHandler.Get(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/cart", cartRouteHandler)

	// Cart item handler function
	cartItemRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && isRoot(r.URL.Path, "/api/cart/items"):
			cartHandler.AddItem(w, r)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			cartHandler.UpdateItem(w, r)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/cart/items/"):
			cartHandler.RemoveItem(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/cart/items", cartItemRouteHandler)
	mux.HandleFunc("/api/cart/items/", cartItemRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && isRoot(r.URL.Path, "/api/orders"):
			orderHandler.Create(w, r)
		case r.Method == http.MethodGet && isRoot(r.URL.Path, "/api/orders"):
			orderHandler.History(w, r)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/orders/"):
			orderHandler.GetByID(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Payment handler function. The GET root route is the gateway callback.
	paymentRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && isRoot(r.URL.Path, "/api/payments"):
			paymentHandler.Callback(w, r)
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/payments/"):
			paymentHandler.Initiate(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/payments", paymentRouteHandler)
	mux.HandleFunc("/api/payments/", paymentRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> BearerAuth
	var h http.Handler = mux
	h = middleware.BearerAuth(jwtSecret, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

// isRoot matches a path with or without a trailing slash.
func isRoot(path, root string) bool {
	return path == root || path == root+"/"
}
