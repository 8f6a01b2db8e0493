package repository

import (
	"context"

	"blackinpay/internal/domain/model"
)

// PlanRepository manages subscription tiers.
type PlanRepository interface {
	Save(ctx context.Context, plan *model.Plan) error
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	ListByBot(ctx context.Context, botID string) ([]*model.Plan, error)
	// ListActiveByBot returns only plans the paywall keyboard should show.
	ListActiveByBot(ctx context.Context, botID string) ([]*model.Plan, error)
	// IncrementSales bumps the sales counter; runs inside the payment-paid transaction.
	IncrementSales(ctx context.Context, tx Tx, planID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Delete(ctx context.Context, id string) error
}
