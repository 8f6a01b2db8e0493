package repository

import (
	"context"

	"blackinpay/internal/domain/model"
)

// OwnerRepository manages platform accounts.
type OwnerRepository interface {
	Save(ctx context.Context, owner *model.Owner) error
	FindByID(ctx context.Context, id string) (*model.Owner, error)
	FindByEmail(ctx context.Context, email string) (*model.Owner, error)
	// UpdateFeePercent changes the platform split for one owner.
	UpdateFeePercent(ctx context.Context, ownerID string, feePercent int) error
}
