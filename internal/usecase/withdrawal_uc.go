package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/metrics"
)

// Compile-time check
var _ WithdrawalUseCase = (*withdrawalUC)(nil)

// Balance is the owner's money picture in cents.
type Balance struct {
	PaidRevenueCents     int64
	PlatformFeeCents     int64
	WithdrawnCents       int64
	AvailableCents       int64
	ProviderBalanceCents int64
}

type WithdrawalUseCase interface {
	// Balance computes paid revenue minus the platform fee minus withdrawals,
	// and proxies the provider account balance alongside.
	Balance(ctx context.Context, ownerID string) (Balance, error)
	// Request validates the PIX key with the provider, checks the available
	// balance and initiates the transfer.
	Request(ctx context.Context, ownerID string, amountCents int64, pixKey string, kind model.PixKeyKind) (*model.Withdrawal, error)
	List(ctx context.Context, ownerID string) ([]*model.Withdrawal, error)
	// Get refreshes a non-final withdrawal against the provider before returning it.
	Get(ctx context.Context, ownerID, withdrawalID string) (*model.Withdrawal, error)
}

type withdrawalUC struct {
	withdrawals repository.WithdrawalRepository
	payments    repository.PaymentRepository
	owners      repository.OwnerRepository
	gateway     adapter.PixGateway
}

func NewWithdrawalUseCase(withdrawals repository.WithdrawalRepository, payments repository.PaymentRepository, owners repository.OwnerRepository, gateway adapter.PixGateway) *withdrawalUC {
	return &withdrawalUC{withdrawals: withdrawals, payments: payments, owners: owners, gateway: gateway}
}

func (u *withdrawalUC) availableCents(ctx context.Context, ownerID string) (Balance, error) {
	owner, err := u.owners.FindByID(ctx, ownerID)
	if err != nil {
		return Balance{}, err
	}
	paid, err := u.payments.PaidTotalCents(ctx, ownerID)
	if err != nil {
		return Balance{}, err
	}
	withdrawn, err := u.withdrawals.WithdrawnTotalCents(ctx, ownerID)
	if err != nil {
		return Balance{}, err
	}

	fee := paid * int64(owner.FeePercent) / 100
	return Balance{
		PaidRevenueCents: paid,
		PlatformFeeCents: fee,
		WithdrawnCents:   withdrawn,
		AvailableCents:   paid - fee - withdrawn,
	}, nil
}

func (u *withdrawalUC) Balance(ctx context.Context, ownerID string) (Balance, error) {
	b, err := u.availableCents(ctx, ownerID)
	if err != nil {
		return Balance{}, err
	}
	// Provider balance is informational; its absence must not hide our numbers.
	if provider, err := u.gateway.Balance(ctx); err == nil {
		b.ProviderBalanceCents = provider
	}
	return b, nil
}

func (u *withdrawalUC) Request(ctx context.Context, ownerID string, amountCents int64, pixKey string, kind model.PixKeyKind) (*model.Withdrawal, error) {
	switch kind {
	case model.PixKeyCPF, model.PixKeyCNPJ, model.PixKeyEmail, model.PixKeyPhone, model.PixKeyRandom:
	default:
		return nil, domain.ErrInvalidArgument
	}

	ok, err := u.gateway.ValidatePixKey(ctx, pixKey, string(kind))
	if err != nil {
		return nil, fmt.Errorf("validate pix key: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidArgument
	}

	b, err := u.availableCents(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if amountCents > b.AvailableCents {
		return nil, domain.ErrInsufficientBalance
	}

	w, err := model.NewWithdrawal(uuid.NewString(), ownerID, amountCents, pixKey, kind)
	if err != nil {
		return nil, err
	}
	w.ExternalID = ulid.Make().String()
	if err := u.withdrawals.Save(ctx, w); err != nil {
		return nil, err
	}

	transfer, err := u.gateway.CreateTransfer(ctx, amountCents, pixKey, string(kind), w.ExternalID)
	if err != nil {
		w.Status = model.WithdrawalStatusFailed
		_ = u.withdrawals.Save(ctx, w)
		return nil, fmt.Errorf("create transfer: %w", err)
	}

	w.TransferID = transfer.TransferID
	if transfer.Status != "" {
		w.Status = model.WithdrawalStatus(transfer.Status)
	} else {
		w.Status = model.WithdrawalStatusProcessing
	}
	if err := u.withdrawals.Save(ctx, w); err != nil {
		return nil, err
	}
	metrics.IncWithdrawalCreated()
	return w, nil
}

func (u *withdrawalUC) List(ctx context.Context, ownerID string) ([]*model.Withdrawal, error) {
	return u.withdrawals.ListByOwner(ctx, ownerID)
}

func (u *withdrawalUC) Get(ctx context.Context, ownerID, withdrawalID string) (*model.Withdrawal, error) {
	w, err := u.withdrawals.FindByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if w.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	if w.TransferID != "" && (w.Status == model.WithdrawalStatusPending || w.Status == model.WithdrawalStatusProcessing) {
		transfer, err := u.gateway.GetTransfer(ctx, w.TransferID)
		if err == nil && transfer.Status != "" && model.WithdrawalStatus(transfer.Status) != w.Status {
			w.Status = model.WithdrawalStatus(transfer.Status)
			if w.Status == model.WithdrawalStatusDone {
				now := time.Now()
				w.CompletedAt = &now
			}
			if err := u.withdrawals.Save(ctx, w); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}
