package repository

import (
	"context"
	"time"

	"blackinpay/internal/domain/model"
)

// PaymentRepository manages PIX charges and the sales trail.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, payment *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.Payment, error)
	FindByProviderTxID(ctx context.Context, providerTxID string) (*model.Payment, error)
	// MarkPaid transitions pending -> paid; returns domain.ErrNotFound when the
	// payment is absent or already left pending (idempotent webhook redelivery).
	MarkPaid(ctx context.Context, tx Tx, paymentID string, at time.Time) error
	MarkExpired(ctx context.Context, tx Tx, paymentID string) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*model.Payment, error)

	SaveSale(ctx context.Context, tx Tx, sale *model.Sale) error
	ListRecentSales(ctx context.Context, ownerID string, limit int) ([]*model.Sale, error)
	// PaidTotalCents sums confirmed revenue for one owner's bots.
	PaidTotalCents(ctx context.Context, ownerID string) (int64, error)
	CountSales(ctx context.Context, ownerID string) (int, error)
}
