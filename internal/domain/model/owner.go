package model

import (
	"time"

	"blackinpay/internal/domain"
)

// Owner is a platform account that registers and configures bots.
type Owner struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	TelegramID   *int64 // Pointer to allow for NULL
	// FeePercent is the platform cut applied to this owner's paid payments,
	// expressed in whole percent (e.g. 10 = 10%).
	FeePercent int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOwner validates and constructs an owner account.
func NewOwner(id, email, name, passwordHash string) (*Owner, error) {
	if id == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Owner{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		FeePercent:   defaultFeePercent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

const defaultFeePercent = 10
