package gateway

import (
	"context"
	"fmt"
	"time"
)

// SimulatedGateway mimics the provider locally. Orders get synthetic IDs and
// every signature verifies. For development and test environments only.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) CreateOrder(_ context.Context, amount int64, currency string, _ OrderMetadata) (*Order, error) {
	return &Order{
		ID:       fmt.Sprintf("order_%d", time.Now().UnixMilli()),
		Amount:   amount,
		Currency: currency,
		Status:   "created",
	}, nil
}

func (g *SimulatedGateway) VerifySignature(_, _, _ string) bool {
	return true
}

func (g *SimulatedGateway) Mode() string {
	return ModeSimulated
}

func (g *SimulatedGateway) Key() string {
	return "key_test_simulated"
}
