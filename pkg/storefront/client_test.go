package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL}, tokens)
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSearchProducts_EnvelopeShape(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "gajak", r.URL.Query().Get("search"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []model.Product{
				{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", PricePerKg: 450, GSTPercent: 5},
				{SKU: "GJK-SPL-250", Name: "Special Gajak 250g", PricePerKg: 520, GSTPercent: 5},
			},
			"total": 7,
		})
	})

	client := newTestClient(t, handler, nil)
	products, total, err := client.SearchProducts(context.Background(), "gajak", 1, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 7, total)
	assert.Equal(t, 450.0, products[0].PricePerKg)
}

func TestSearchProducts_BareArrayShape(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Product{
			{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", PricePerKg: 450},
		})
	})

	client := newTestClient(t, handler, nil)
	products, total, err := client.SearchProducts(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}

func TestSearchProducts_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "INTERNAL_SERVER_ERROR",
			"message": "Something went wrong",
		})
	})

	client := newTestClient(t, handler, nil)
	_, _, err := client.SearchProducts(context.Background(), "", 1, 20)
	require.ErrorIs(t, err, ErrProductFetch)
	assert.Contains(t, err.Error(), "Something went wrong")
}

func TestLookupProduct(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The search can return near matches; lookup must pick the exact SKU.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []model.Product{
				{SKU: "GJK-REG-250-GIFT", Name: "Gift Box", PricePerKg: 900},
				{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", PricePerKg: 450},
			},
			"total": 2,
		})
	})

	client := newTestClient(t, handler, nil)

	product, err := client.LookupProduct(context.Background(), "GJK-REG-250")
	require.NoError(t, err)
	assert.Equal(t, "Regular Gajak 250g", product.Name)

	_, err = client.LookupProduct(context.Background(), "GJK-TIL-250")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSubmitOrder(t *testing.T) {
	var received SubmitOrderRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": model.Order{Number: "ORD-AB12CD34", Status: model.OrderStatusPending, TotalAmount: 1727.25},
		})
	})

	client := newTestClient(t, handler, StaticToken("session-token"))

	order, err := client.SubmitOrder(context.Background(), []model.CartLine{
		{SKU: "GJK-REG-250", QuantityKg: 2.5},
		{SKU: "GJK-SPL-250", QuantityKg: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-AB12CD34", order.Number)

	// Only SKU and quantity travel.
	require.Len(t, received.Items, 2)
	assert.Equal(t, model.CartLine{SKU: "GJK-REG-250", QuantityKg: 2.5}, received.Items[0])
}

func TestSubmitOrder_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "AUTH_UNAUTHORIZED", "message": "Please sign in"})
	})

	client := newTestClient(t, handler, nil)
	_, err := client.SubmitOrder(context.Background(), []model.CartLine{{SKU: "GJK-REG-250", QuantityKg: 1}})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitOrder_RejectedByServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "ORDER_UNKNOWN_SKU",
			"message": "unknown product SKU: GJK-NOPE-000",
		})
	})

	client := newTestClient(t, handler, nil)
	_, err := client.SubmitOrder(context.Background(), []model.CartLine{{SKU: "GJK-NOPE-000", QuantityKg: 1}})
	require.ErrorIs(t, err, ErrOrderSubmission)
	assert.Contains(t, err.Error(), "GJK-NOPE-000")
}

func TestDoRequest_NoTokenNoHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"products": []model.Product{}, "total": 0})
	})

	client := newTestClient(t, handler, StaticToken(""))
	_, _, err := client.SearchProducts(context.Background(), "", 1, 20)
	require.NoError(t, err)
}

func TestGetOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/ORD-AB12CD34":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"order": model.Order{Number: "ORD-AB12CD34", Status: model.OrderStatusShipped},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "ORDER_NOT_FOUND", "message": "Order not found"})
		}
	})

	client := newTestClient(t, handler, StaticToken("session-token"))

	order, err := client.GetOrder(context.Background(), "ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)

	_, err = client.GetOrder(context.Background(), "ORD-MISSING1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyOTP(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/otp/verify", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["code"] != "123456" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "AUTH_CODE_INVALID", "message": "The code is incorrect"})
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"session": Session{AccessToken: "session-token", Name: "Sharma Distributors"},
		})
	})

	client := newTestClient(t, handler, nil)

	session, err := client.VerifyOTP(context.Background(), "+919876543210", "123456")
	require.NoError(t, err)
	assert.Equal(t, "session-token", session.AccessToken)
	assert.Equal(t, "Sharma Distributors", session.Name)

	_, err = client.VerifyOTP(context.Background(), "+919876543210", "000000")
	assert.ErrorIs(t, err, ErrAuthFailed)
}
