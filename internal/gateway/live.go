package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "hallbook/internal/errors"
)

// LiveGateway talks to the real payment provider over HTTP
type LiveGateway struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func NewLiveGateway(cfg Config) *LiveGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &LiveGateway{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (g *LiveGateway) CreateOrder(ctx context.Context, amount int64, currency string, meta OrderMetadata) (*Order, error) {
	reqBody := createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  fmt.Sprintf("booking_%d", meta.BookingID),
		Notes: map[string]string{
			"bookingId": strconv.FormatInt(meta.BookingID, 10),
			"hallName":  meta.HallName,
			"userId":    strconv.FormatInt(meta.UserID, 10),
			"userName":  meta.UserName,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts land here too; the caller treats both the same way.
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: unexpected status code %d", apperrors.ErrGateway, resp.StatusCode)
	}

	var result createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order response: %v", apperrors.ErrGateway, err)
	}

	return &Order{
		ID:       result.ID,
		Amount:   result.Amount,
		Currency: result.Currency,
		Status:   result.Status,
	}, nil
}

// VerifySignature checks HMAC-SHA256("orderID|paymentID", secret) against the
// provided signature using a constant-time comparison.
func (g *LiveGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *LiveGateway) Mode() string {
	return ModeLive
}

func (g *LiveGateway) Key() string {
	return g.keyID
}
