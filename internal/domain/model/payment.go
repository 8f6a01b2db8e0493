package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // charge created, awaiting PIX transfer
	PaymentStatusPaid    PaymentStatus = "paid"    // provider confirmed the transfer
	PaymentStatusExpired PaymentStatus = "expired" // charge window elapsed unpaid
	PaymentStatusFailed  PaymentStatus = "failed"  // provider rejected the charge
)

// Payment records one PIX charge created for a payer against a plan.
type Payment struct {
	ID              string // UUID
	BotID           string
	PlanID          string
	PayerTelegramID int64
	PayerName       string
	AmountCents     int64  // BRL cents, the unit PushinPay transacts in
	Method          string // always "pix" today
	Status          PaymentStatus
	// ExternalID is the reference we hand to the provider (ULID, sortable).
	ExternalID string
	// ProviderTxID is the provider's own transaction id, set once the charge exists.
	ProviderTxID string
	PixCopyPaste string // BR Code payload the payer pastes into their bank app
	QRCodeBase64 string
	ExpiresAt    time.Time
	PaidAt       *time.Time // set when paid
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sale is the historical trail row written when a payment is confirmed.
// Separate from Payment (money) and GroupMember (entitlement).
type Sale struct {
	ID              string
	PaymentID       string
	BotID           string
	PlanID          string
	PayerTelegramID int64
	AmountCents     int64
	AccessUntil     *time.Time // nil for lifetime plans
	CreatedAt       time.Time
}
