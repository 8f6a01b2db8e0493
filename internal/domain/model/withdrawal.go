package model

import (
	"time"

	"blackinpay/internal/domain"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusDone       WithdrawalStatus = "done"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

type PixKeyKind string

const (
	PixKeyCPF    PixKeyKind = "cpf"
	PixKeyCNPJ   PixKeyKind = "cnpj"
	PixKeyEmail  PixKeyKind = "email"
	PixKeyPhone  PixKeyKind = "phone"
	PixKeyRandom PixKeyKind = "random"
)

// Withdrawal is an owner's request to move earned balance to their PIX key.
type Withdrawal struct {
	ID          string
	OwnerID     string
	AmountCents int64
	PixKey      string
	PixKeyKind  PixKeyKind
	Status      WithdrawalStatus
	// ExternalID is the reference sent to the provider; TransferID is what it answered.
	ExternalID  string
	TransferID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewWithdrawal validates and constructs a pending withdrawal.
func NewWithdrawal(id, ownerID string, amountCents int64, pixKey string, kind PixKeyKind) (*Withdrawal, error) {
	if id == "" || ownerID == "" || amountCents <= 0 || pixKey == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Withdrawal{
		ID:          id,
		OwnerID:     ownerID,
		AmountCents: amountCents,
		PixKey:      pixKey,
		PixKeyKind:  kind,
		Status:      WithdrawalStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
