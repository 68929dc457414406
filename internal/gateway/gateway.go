// Package gateway wraps the external payment provider. Two implementations
// exist: a live HTTP client that creates provider orders and verifies webhook
// signatures, and a simulated variant for environments without credentials.
package gateway

import (
	"context"
	"time"
)

const (
	ModeLive      = "live"
	ModeSimulated = "simulated"
)

type Config struct {
	Mode      string
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// OrderMetadata is attached to the provider order for reconciliation
type OrderMetadata struct {
	BookingID int64
	HallName  string
	UserID    int64
	UserName  string
}

// Order is the provider-side payment order handed back to the client
type Order struct {
	ID       string
	Amount   int64 // minor units
	Currency string
	Status   string
}

// Gateway is the payment provider adapter consumed by the payment workflow.
type Gateway interface {
	// CreateOrder registers a payment order with the provider. Amount is in
	// minor units. Failures wrap errors.ErrGateway and must not mutate any
	// booking state in the caller.
	CreateOrder(ctx context.Context, amount int64, currency string, meta OrderMetadata) (*Order, error)

	// VerifySignature checks the provider signature for a completed payment.
	// Pure and stateless.
	VerifySignature(orderID, paymentID, signature string) bool

	// Mode reports which variant is active ("live" or "simulated")
	Mode() string

	// Key is the public key identifier handed to clients for checkout
	Key() string
}

// New selects the gateway variant from configuration. Missing credentials
// force simulated mode regardless of the configured mode.
func New(cfg Config) Gateway {
	if cfg.Mode == ModeLive && cfg.KeyID != "" && cfg.KeySecret != "" {
		return NewLiveGateway(cfg)
	}
	return NewSimulatedGateway()
}
