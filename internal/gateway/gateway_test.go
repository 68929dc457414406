package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "hallbook/internal/errors"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestLiveVerifySignature(t *testing.T) {
	g := NewLiveGateway(Config{KeyID: "key_abc", KeySecret: "s3cret"})

	valid := signPayment("s3cret", "order_1", "pay_1")
	assert.True(t, g.VerifySignature("order_1", "pay_1", valid))

	assert.False(t, g.VerifySignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, g.VerifySignature("order_1", "pay_1", ""))

	// Signature over different IDs must not verify
	other := signPayment("s3cret", "order_2", "pay_1")
	assert.False(t, g.VerifySignature("order_1", "pay_1", other))
}

func TestSimulatedVerifiesAnything(t *testing.T) {
	g := NewSimulatedGateway()

	assert.True(t, g.VerifySignature("order_1", "pay_1", "garbage"))
	assert.True(t, g.VerifySignature("", "", ""))
}

func TestLiveCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_abc", user)
		assert.Equal(t, "s3cret", pass)

		var req createOrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(500000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "booking_42", req.Receipt)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(createOrderResponse{
			ID:       "order_live_1",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer srv.Close()

	g := NewLiveGateway(Config{BaseURL: srv.URL, KeyID: "key_abc", KeySecret: "s3cret"})

	order, err := g.CreateOrder(context.Background(), 500000, "INR", OrderMetadata{
		BookingID: 42,
		HallName:  "Grand Palace",
		UserID:    7,
		UserName:  "Asha",
	})
	assert.NoError(t, err)
	assert.Equal(t, "order_live_1", order.ID)
	assert.Equal(t, int64(500000), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestLiveCreateOrderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewLiveGateway(Config{BaseURL: srv.URL, KeyID: "key_abc", KeySecret: "s3cret"})

	_, err := g.CreateOrder(context.Background(), 1000, "INR", OrderMetadata{BookingID: 1})
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestLiveCreateOrderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewLiveGateway(Config{BaseURL: srv.URL, KeyID: "key_abc", KeySecret: "s3cret", Timeout: 20 * time.Millisecond})

	_, err := g.CreateOrder(context.Background(), 1000, "INR", OrderMetadata{BookingID: 1})
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestNewSelectsVariant(t *testing.T) {
	g := New(Config{Mode: ModeLive, KeyID: "key", KeySecret: "secret"})
	assert.Equal(t, ModeLive, g.Mode())

	// Missing credentials force simulated mode regardless of the flag
	g = New(Config{Mode: ModeLive})
	assert.Equal(t, ModeSimulated, g.Mode())

	g = New(Config{Mode: ModeSimulated, KeyID: "key", KeySecret: "secret"})
	assert.Equal(t, ModeSimulated, g.Mode())
}
