package adapter

import (
	"context"
	"time"
)

// PixCharge is the provider-side view of one cash-in.
type PixCharge struct {
	ProviderTxID string
	Status       string // created | paid | expired
	AmountCents  int64
	CopyPaste    string // BR Code payload
	QRCodeBase64 string
	PaidAt       *time.Time
}

// PixTransfer is the provider-side view of one payout.
type PixTransfer struct {
	TransferID  string
	Status      string // pending | processing | done | failed
	AmountCents int64
	CreatedAt   time.Time
}

// PixGateway is the hex port for the PIX payment processor. Amounts are
// integer cents everywhere, matching the provider wire format.
type PixGateway interface {
	Name() string

	// CreateCharge opens a PIX cash-in and returns the payable charge.
	CreateCharge(ctx context.Context, amountCents int64, description, externalID string, expiresIn time.Duration) (PixCharge, error)
	// GetCharge polls charge status by provider transaction id.
	GetCharge(ctx context.Context, providerTxID string) (PixCharge, error)

	// CreateTransfer initiates a payout to a PIX key.
	CreateTransfer(ctx context.Context, amountCents int64, pixKey, pixKeyKind, externalID string) (PixTransfer, error)
	GetTransfer(ctx context.Context, transferID string) (PixTransfer, error)
	ListTransfers(ctx context.Context, limit int) ([]PixTransfer, error)

	Balance(ctx context.Context) (int64, error)
	// ValidatePixKey asks the provider whether a key is payable before a payout.
	ValidatePixKey(ctx context.Context, pixKey, pixKeyKind string) (bool, error)
}
