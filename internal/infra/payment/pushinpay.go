package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"blackinpay/internal/domain/ports/adapter"
)

// Ensure implementation satisfies the port.
var _ adapter.PixGateway = (*PushinPayGateway)(nil)

// PushinPayGateway implements PixGateway using direct HTTP calls against the
// PushinPay REST API. All amounts on the wire are integer BRL cents.
type PushinPayGateway struct {
	apiKey     string
	baseURL    string
	webhookURL string
	client     *http.Client
}

// NewPushinPayGateway creates a new direct PushinPay gateway. webhookURL is
// registered on every charge so the provider can push paid notifications.
func NewPushinPayGateway(apiKey, baseURL, webhookURL string) *PushinPayGateway {
	if baseURL == "" {
		baseURL = "https://api.pushinpay.com.br/api"
	}
	return &PushinPayGateway{
		apiKey:     apiKey,
		baseURL:    baseURL,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *PushinPayGateway) Name() string { return "pushinpay" }

// pushinPayCharge represents a PIX cash-in on the wire.
type pushinPayCharge struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Value        int64  `json:"value"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	PaidAt       string `json:"paid_at"`
}

// pushinPayTransfer represents a PIX payout on the wire.
type pushinPayTransfer struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type pushinPayError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (g *PushinPayGateway) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr pushinPayError
		if json.Unmarshal(raw, &apiErr) == nil && (apiErr.Message != "" || apiErr.Error != "") {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.Error
			}
			return fmt.Errorf("pushinpay error: status %d, message: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("pushinpay error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(raw))
		}
	}
	return nil
}

func parseProviderTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func chargeFromWire(c pushinPayCharge) adapter.PixCharge {
	return adapter.PixCharge{
		ProviderTxID: c.ID,
		Status:       c.Status,
		AmountCents:  c.Value,
		CopyPaste:    c.QRCode,
		QRCodeBase64: c.QRCodeBase64,
		PaidAt:       parseProviderTime(c.PaidAt),
	}
}

// CreateCharge implements PixGateway.CreateCharge via POST /pix/cashIn.
func (g *PushinPayGateway) CreateCharge(ctx context.Context, amountCents int64, description, externalID string, expiresIn time.Duration) (adapter.PixCharge, error) {
	requestData := map[string]interface{}{
		"value":              amountCents,
		"description":        description,
		"external_reference": externalID,
		"webhook_url":        g.webhookURL,
	}
	if expiresIn > 0 {
		requestData["expires_in_minutes"] = int(expiresIn.Minutes())
	}

	var wire pushinPayCharge
	if err := g.do(ctx, http.MethodPost, "/pix/cashIn", requestData, &wire); err != nil {
		return adapter.PixCharge{}, err
	}
	return chargeFromWire(wire), nil
}

// GetCharge implements PixGateway.GetCharge via GET /payments/{id}.
func (g *PushinPayGateway) GetCharge(ctx context.Context, providerTxID string) (adapter.PixCharge, error) {
	var wire pushinPayCharge
	if err := g.do(ctx, http.MethodGet, "/payments/"+providerTxID, nil, &wire); err != nil {
		return adapter.PixCharge{}, err
	}
	return chargeFromWire(wire), nil
}

func transferFromWire(t pushinPayTransfer) adapter.PixTransfer {
	out := adapter.PixTransfer{
		TransferID:  t.ID,
		Status:      t.Status,
		AmountCents: t.Amount,
	}
	if ts := parseProviderTime(t.CreatedAt); ts != nil {
		out.CreatedAt = *ts
	}
	return out
}

// CreateTransfer implements PixGateway.CreateTransfer via POST /transfers.
func (g *PushinPayGateway) CreateTransfer(ctx context.Context, amountCents int64, pixKey, pixKeyKind, externalID string) (adapter.PixTransfer, error) {
	requestData := map[string]interface{}{
		"amount":             amountCents,
		"pix_key":            pixKey,
		"pix_key_type":       pixKeyKind,
		"external_reference": externalID,
	}

	var wire pushinPayTransfer
	if err := g.do(ctx, http.MethodPost, "/transfers", requestData, &wire); err != nil {
		return adapter.PixTransfer{}, err
	}
	return transferFromWire(wire), nil
}

// GetTransfer implements PixGateway.GetTransfer via GET /transfers/{id}.
func (g *PushinPayGateway) GetTransfer(ctx context.Context, transferID string) (adapter.PixTransfer, error) {
	var wire pushinPayTransfer
	if err := g.do(ctx, http.MethodGet, "/transfers/"+transferID, nil, &wire); err != nil {
		return adapter.PixTransfer{}, err
	}
	return transferFromWire(wire), nil
}

// ListTransfers implements PixGateway.ListTransfers via GET /transfers.
func (g *PushinPayGateway) ListTransfers(ctx context.Context, limit int) ([]adapter.PixTransfer, error) {
	path := "/transfers"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var wire struct {
		Data []pushinPayTransfer `json:"data"`
	}
	if err := g.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]adapter.PixTransfer, 0, len(wire.Data))
	for _, t := range wire.Data {
		out = append(out, transferFromWire(t))
	}
	return out, nil
}

// Balance implements PixGateway.Balance via GET /balance.
func (g *PushinPayGateway) Balance(ctx context.Context) (int64, error) {
	var wire struct {
		Balance int64 `json:"balance"`
	}
	if err := g.do(ctx, http.MethodGet, "/balance", nil, &wire); err != nil {
		return 0, err
	}
	return wire.Balance, nil
}

// ValidatePixKey implements PixGateway.ValidatePixKey via POST /pix/validate.
func (g *PushinPayGateway) ValidatePixKey(ctx context.Context, pixKey, pixKeyKind string) (bool, error) {
	requestData := map[string]interface{}{
		"pix_key":      pixKey,
		"pix_key_type": pixKeyKind,
	}

	var wire struct {
		Valid bool `json:"valid"`
	}
	if err := g.do(ctx, http.MethodPost, "/pix/validate", requestData, &wire); err != nil {
		return false, err
	}
	return wire.Valid, nil
}
