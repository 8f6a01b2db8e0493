package repository

import (
	"context"

	"blackinpay/internal/domain/model"
)

// WithdrawalRepository manages payout requests.
type WithdrawalRepository interface {
	Save(ctx context.Context, w *model.Withdrawal) error
	FindByID(ctx context.Context, id string) (*model.Withdrawal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Withdrawal, error)
	// WithdrawnTotalCents sums everything not in failed state, i.e. money
	// already committed against the owner's balance.
	WithdrawnTotalCents(ctx context.Context, ownerID string) (int64, error)
}
