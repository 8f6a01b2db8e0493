package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// chargeTTL is how long a PIX charge stays payable.
const chargeTTL = 15 * time.Minute

type PaymentUseCase interface {
	// Create opens a pending payment and a PIX charge for it. On gateway
	// failure the payment row is kept with status failed and the provider
	// error is returned.
	Create(ctx context.Context, botID, planID string, payerTelegramID int64, payerName string) (*model.Payment, error)
	Get(ctx context.Context, paymentID string) (*model.Payment, error)
	// PollStatus re-checks a still-pending payment against the provider and
	// finalizes it when the provider already settled it.
	PollStatus(ctx context.Context, paymentID string) (*model.Payment, error)
	// ConfirmByProviderTx finalizes a payment on a provider webhook push.
	// Idempotent: redelivery of an already-paid notification is a no-op.
	ConfirmByProviderTx(ctx context.Context, providerTxID string, paidAt time.Time) error
	// ReconcilePending sweeps payments stuck in pending past staleAfter,
	// settling or expiring them. Returns how many rows changed state.
	ReconcilePending(ctx context.Context, staleAfter time.Duration, limit int) (int, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	bots     repository.BotRepository
	groups   repository.GroupRepository
	gateway  adapter.PixGateway
	tg       adapter.TelegramAPI
	txm      repository.TransactionManager
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	plans repository.PlanRepository,
	bots repository.BotRepository,
	groups repository.GroupRepository,
	gateway adapter.PixGateway,
	tg adapter.TelegramAPI,
	txm repository.TransactionManager,
) *paymentUC {
	return &paymentUC{payments: payments, plans: plans, bots: bots, groups: groups, gateway: gateway, tg: tg, txm: txm}
}

func (u *paymentUC) Create(ctx context.Context, botID, planID string, payerTelegramID int64, payerName string) (*model.Payment, error) {
	plan, err := u.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.BotID != botID || !plan.IsActive {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.bots.FindByID(ctx, botID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Payment{
		ID:              uuid.NewString(),
		BotID:           botID,
		PlanID:          planID,
		PayerTelegramID: payerTelegramID,
		PayerName:       payerName,
		AmountCents:     plan.PriceCents,
		Method:          "pix",
		Status:          model.PaymentStatusPending,
		ExternalID:      ulid.Make().String(),
		ExpiresAt:       now.Add(chargeTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := u.payments.Save(ctx, repository.NoTx, p); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s (%s)", plan.Name, plan.PriceLabel())
	charge, err := u.gateway.CreateCharge(ctx, p.AmountCents, description, p.ExternalID, chargeTTL)
	if err != nil {
		p.Status = model.PaymentStatusFailed
		p.UpdatedAt = time.Now()
		_ = u.payments.Save(ctx, repository.NoTx, p)
		metrics.IncPaymentFinalized("failed")
		return nil, fmt.Errorf("create pix charge: %w", err)
	}

	p.ProviderTxID = charge.ProviderTxID
	p.PixCopyPaste = charge.CopyPaste
	p.QRCodeBase64 = charge.QRCodeBase64
	p.UpdatedAt = time.Now()
	if err := u.payments.Save(ctx, repository.NoTx, p); err != nil {
		return nil, err
	}
	metrics.IncPaymentCreated()
	return p, nil
}

func (u *paymentUC) Get(ctx context.Context, paymentID string) (*model.Payment, error) {
	return u.payments.FindByID(ctx, paymentID)
}

func (u *paymentUC) PollStatus(ctx context.Context, paymentID string) (*model.Payment, error) {
	p, err := u.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentStatusPending {
		return p, nil
	}

	charge, err := u.gateway.GetCharge(ctx, p.ProviderTxID)
	if err != nil {
		return nil, err
	}
	switch charge.Status {
	case "paid", "approved":
		paidAt := time.Now()
		if charge.PaidAt != nil {
			paidAt = *charge.PaidAt
		}
		if err := u.finalizePaid(ctx, p, paidAt); err != nil {
			return nil, err
		}
	case "expired":
		if err := u.payments.MarkExpired(ctx, repository.NoTx, p.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		metrics.IncPaymentFinalized("expired")
	}
	return u.payments.FindByID(ctx, paymentID)
}

func (u *paymentUC) ConfirmByProviderTx(ctx context.Context, providerTxID string, paidAt time.Time) error {
	p, err := u.payments.FindByProviderTxID(ctx, providerTxID)
	if err != nil {
		return err
	}
	if p.Status != model.PaymentStatusPending {
		return nil // webhook redelivery
	}
	return u.finalizePaid(ctx, p, paidAt)
}

// finalizePaid moves one payment to paid and grants the entitlement. The
// status flip, sales-counter bump, sale row and member extension share one
// transaction; MarkPaid's pending-only predicate makes the whole block run at
// most once per payment.
func (u *paymentUC) finalizePaid(ctx context.Context, p *model.Payment, paidAt time.Time) error {
	plan, err := u.plans.FindByID(ctx, p.PlanID)
	if err != nil {
		return err
	}
	groups, err := u.groups.ListGroupsByBot(ctx, p.BotID)
	if err != nil {
		return err
	}

	var accessUntil *time.Time
	if plan.DaysAccess != model.LifetimeAccess {
		until := paidAt.AddDate(0, 0, plan.DaysAccess)
		accessUntil = &until
	}

	err = u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.payments.MarkPaid(ctx, tx, p.ID, paidAt); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil // another path settled it first
			}
			return err
		}
		if err := u.plans.IncrementSales(ctx, tx, p.PlanID); err != nil {
			return err
		}
		sale := &model.Sale{
			ID:              uuid.NewString(),
			PaymentID:       p.ID,
			BotID:           p.BotID,
			PlanID:          p.PlanID,
			PayerTelegramID: p.PayerTelegramID,
			AmountCents:     p.AmountCents,
			AccessUntil:     accessUntil,
			CreatedAt:       paidAt,
		}
		if err := u.payments.SaveSale(ctx, tx, sale); err != nil {
			return err
		}
		for _, g := range groups {
			member := &model.GroupMember{
				ID:             uuid.NewString(),
				GroupID:        g.ID,
				TelegramUserID: p.PayerTelegramID,
				Name:           p.PayerName,
				PaidUntil:      accessUntil,
				CreatedAt:      paidAt,
				UpdatedAt:      paidAt,
			}
			if err := u.groups.UpsertMember(ctx, tx, member); err != nil {
				return err
			}
			if err := u.groups.ExtendMemberAccess(ctx, tx, g.ID, p.PayerTelegramID, accessUntil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncPaymentFinalized("paid")
	metrics.AddPaidRevenue(p.AmountCents)

	// Best-effort confirmation to the payer; a blocked bot must not fail the
	// settlement.
	if bot, err := u.bots.FindByID(ctx, p.BotID); err == nil && p.PayerTelegramID != 0 {
		text := fmt.Sprintf("✅ Pagamento confirmado! Plano %s ativado.", plan.Name)
		_ = u.tg.SendMessage(ctx, bot.Token, p.PayerTelegramID, text, nil)
	}
	return nil
}

func (u *paymentUC) ReconcilePending(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	pending, err := u.payments.ListPendingOlderThan(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, p := range pending {
		if p.ProviderTxID == "" {
			continue
		}
		charge, err := u.gateway.GetCharge(ctx, p.ProviderTxID)
		if err != nil {
			continue // provider hiccup, next sweep retries
		}
		switch {
		case charge.Status == "paid" || charge.Status == "approved":
			paidAt := time.Now()
			if charge.PaidAt != nil {
				paidAt = *charge.PaidAt
			}
			if err := u.finalizePaid(ctx, p, paidAt); err == nil {
				changed++
			}
		case time.Now().After(p.ExpiresAt):
			if err := u.payments.MarkExpired(ctx, repository.NoTx, p.ID); err == nil {
				metrics.IncPaymentFinalized("expired")
				changed++
			}
		}
	}
	return changed, nil
}
