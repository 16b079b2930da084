package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"shopkart/internal/events"
	"shopkart/internal/gateway"
	"shopkart/internal/handler"
	"shopkart/internal/model"
	"shopkart/internal/notify"
	"shopkart/internal/repository"
	"shopkart/internal/router"
	"shopkart/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "integration-test-secret"

// stubGateway stands in for the hosted payment gateway. Payment state is
// controlled by the test.
type stubGateway struct {
	mu       sync.Mutex
	statuses map[string]gateway.Status
}

func newStubGateway() *stubGateway {
	return &stubGateway{statuses: make(map[string]gateway.Status)}
}

func (g *stubGateway) setStatus(paymentID string, status gateway.Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[paymentID] = status
}

func (g *stubGateway) CreatePaymentLink(ctx context.Context, req gateway.CreateLinkRequest) (*gateway.PaymentLink, error) {
	linkID := "plink_" + req.ReferenceID
	return &gateway.PaymentLink{ID: linkID, URL: "https://pay.test/" + linkID}, nil
}

func (g *stubGateway) FetchPaymentLink(ctx context.Context, linkID string) (*gateway.PaymentLinkDetails, error) {
	return &gateway.PaymentLinkDetails{ID: linkID, GatewayOrderID: "gw_" + linkID, Status: "open"}, nil
}

func (g *stubGateway) FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	status, ok := g.statuses[paymentID]
	if !ok {
		status = gateway.StatusPending
	}
	return &gateway.Payment{ID: paymentID, Status: status}, nil
}

func setupTestServer(t *testing.T, testDB *TestDB, gw gateway.Client) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	cartItemService := service.NewCartItemService(cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, logger)
	paymentService := service.NewPaymentService(orderRepo, userRepo, gw, events.NopPublisher{}, notify.NopSender{}, "inr", logger)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, cartItemService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// Create router
	return router.New(productHandler, cartHandler, orderHandler, paymentHandler, testJWTSecret, logger)
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, server http.Handler, method, target, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// Full checkout flow over the HTTP surface: cart, items, order, payment
// initiation and the gateway callback.
func TestCheckoutFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	gw := newStubGateway()
	server := setupTestServer(t, testDB, gw)

	userID := SeedUser(t, testDB.Pool)
	product := SeedProduct(t, testDB.Pool, 500, 450)
	auth := bearerToken(t, userID)

	// Create cart
	w := doJSON(t, server, http.MethodPost, "/api/cart", auth, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Add the same item twice; the second add must merge
	addReq := model.AddItemRequest{ProductID: product.ID, Size: "M", Quantity: 2}
	w = doJSON(t, server, http.MethodPost, "/api/cart/items", auth, addReq)
	require.Equal(t, http.StatusCreated, w.Code)

	addReq.Quantity = 1
	w = doJSON(t, server, http.MethodPost, "/api/cart/items", auth, addReq)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/cart", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart model.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(1500), cart.TotalPrice)
	assert.Equal(t, int64(1350), cart.TotalDiscountedPrice)

	// Build the order
	w = doJSON(t, server, http.MethodPost, "/api/orders", auth, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, int64(1350), order.TotalDiscountedPrice)

	// Initiate payment
	w = doJSON(t, server, http.MethodPost, "/api/payments/"+order.ID.String(), auth, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var link model.PaymentLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.NotEmpty(t, link.PaymentLinkURL)

	// Callback before capture: order must stay pending
	const paymentID = "pay_int_1"
	callback := "/api/payments?payment_id=" + paymentID + "&order_id=" + order.ID.String()

	w = doJSON(t, server, http.MethodGet, callback, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not confirmed yet")

	w = doJSON(t, server, http.MethodGet, "/api/orders/"+order.ID.String(), auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Equal(t, model.OrderStatusPending, pending.OrderStatus)

	// Capture the payment, then reconcile twice; both callbacks succeed
	gw.setStatus(paymentID, gateway.StatusCaptured)

	for i := 0; i < 2; i++ {
		w = doJSON(t, server, http.MethodGet, callback, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "placed successfully")
	}

	// Order is settled
	w = doJSON(t, server, http.MethodGet, "/api/orders/"+order.ID.String(), auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var placed model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, model.OrderStatusPlaced, placed.OrderStatus)
	assert.Equal(t, model.PaymentStatusCompleted, placed.Payment.Status)
	require.NotNil(t, placed.Payment.PaymentID)
	assert.Equal(t, paymentID, *placed.Payment.PaymentID)

	// The cart survives checkout untouched
	w = doJSON(t, server, http.MethodGet, "/api/cart", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after model.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Len(t, after.Items, 1)
}

func TestAuth_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB, newStubGateway())

	t.Run("missing token is rejected", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("health check needs no token", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("users cannot read each other's orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		owner := SeedUser(t, testDB.Pool)
		other := SeedUser(t, testDB.Pool)
		product := SeedProduct(t, testDB.Pool, 500, 450)

		ownerAuth := bearerToken(t, owner)
		w := doJSON(t, server, http.MethodPost, "/api/cart", ownerAuth, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, server, http.MethodPost, "/api/cart/items", ownerAuth, model.AddItemRequest{ProductID: product.ID, Size: "M", Quantity: 1})
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, server, http.MethodPost, "/api/orders", ownerAuth, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))

		w = doJSON(t, server, http.MethodGet, "/api/orders/"+order.ID.String(), bearerToken(t, other), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
