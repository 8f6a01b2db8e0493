package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
)

type withdrawalFixture struct {
	uc          *withdrawalUC
	withdrawals *memWithdrawalRepo
	payments    *memPaymentRepo
	owners      *memOwnerRepo
	gateway     *fakeGateway
}

func newWithdrawalFixture(t *testing.T) *withdrawalFixture {
	t.Helper()
	withdrawals := newMemWithdrawalRepo()
	payments := newMemPaymentRepo()
	owners := newMemOwnerRepo()
	gateway := newFakeGateway()
	uc := NewWithdrawalUseCase(withdrawals, payments, owners, gateway)
	return &withdrawalFixture{uc: uc, withdrawals: withdrawals, payments: payments, owners: owners, gateway: gateway}
}

func (f *withdrawalFixture) seedOwner(t *testing.T, feePercent int) *model.Owner {
	t.Helper()
	owner, err := model.NewOwner("owner-1", "maria@example.com", "Maria", "hash:x")
	if err != nil {
		t.Fatalf("NewOwner returned error: %v", err)
	}
	owner.FeePercent = feePercent
	if err := f.owners.Save(context.Background(), owner); err != nil {
		t.Fatalf("Save owner returned error: %v", err)
	}
	return owner
}

func (f *withdrawalFixture) seedPaidPayment(t *testing.T, id string, amountCents int64) {
	t.Helper()
	now := time.Now()
	p := &model.Payment{
		ID: id, BotID: "bot-1", PlanID: "plan-1",
		AmountCents: amountCents, Method: "pix",
		Status: model.PaymentStatusPaid, PaidAt: &now,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := f.payments.Save(context.Background(), nil, p); err != nil {
		t.Fatalf("Save payment returned error: %v", err)
	}
}

func TestBalanceArithmetic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 10)
	f.seedPaidPayment(t, "pay-1", 10000)
	f.seedPaidPayment(t, "pay-2", 5000)
	f.gateway.balanceCents = 99999

	w, _ := model.NewWithdrawal("w-0", "owner-1", 2000, "maria@example.com", model.PixKeyEmail)
	if err := f.withdrawals.Save(ctx, w); err != nil {
		t.Fatalf("Save withdrawal returned error: %v", err)
	}

	b, err := f.uc.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if b.PaidRevenueCents != 15000 {
		t.Fatalf("paid revenue = %d, want 15000", b.PaidRevenueCents)
	}
	if b.PlatformFeeCents != 1500 {
		t.Fatalf("platform fee = %d, want 10%% of 15000", b.PlatformFeeCents)
	}
	if b.WithdrawnCents != 2000 {
		t.Fatalf("withdrawn = %d, want 2000", b.WithdrawnCents)
	}
	if b.AvailableCents != 11500 {
		t.Fatalf("available = %d, want 15000-1500-2000", b.AvailableCents)
	}
	if b.ProviderBalanceCents != 99999 {
		t.Fatalf("provider balance = %d, want proxied value", b.ProviderBalanceCents)
	}
}

func TestBalanceExcludesFailedWithdrawals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 0)
	f.seedPaidPayment(t, "pay-1", 10000)

	w, _ := model.NewWithdrawal("w-0", "owner-1", 4000, "maria@example.com", model.PixKeyEmail)
	w.Status = model.WithdrawalStatusFailed
	if err := f.withdrawals.Save(ctx, w); err != nil {
		t.Fatalf("Save withdrawal returned error: %v", err)
	}

	b, err := f.uc.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if b.AvailableCents != 10000 {
		t.Fatalf("available = %d, failed withdrawals must not count", b.AvailableCents)
	}
}

func TestRequestWithdrawal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 10)
	f.seedPaidPayment(t, "pay-1", 10000)

	w, err := f.uc.Request(ctx, "owner-1", 5000, "maria@example.com", model.PixKeyEmail)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	if w.TransferID == "" {
		t.Fatal("transfer id must be recorded")
	}
	if w.Status != model.WithdrawalStatusProcessing {
		t.Fatalf("status = %s, want processing from provider", w.Status)
	}
	if w.ExternalID == "" {
		t.Fatal("external reference must be set")
	}
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 10)
	f.seedPaidPayment(t, "pay-1", 10000) // 9000 available after fee

	if _, err := f.uc.Request(ctx, "owner-1", 9001, "maria@example.com", model.PixKeyEmail); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if _, err := f.uc.Request(ctx, "owner-1", 9000, "maria@example.com", model.PixKeyEmail); err != nil {
		t.Fatalf("full available amount should pass, got %v", err)
	}
}

func TestRequestWithdrawalInvalidKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 10)
	f.seedPaidPayment(t, "pay-1", 10000)

	if _, err := f.uc.Request(ctx, "owner-1", 1000, "x", "passport"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("unknown key kind err = %v, want ErrInvalidArgument", err)
	}

	f.gateway.keyValid = false
	if _, err := f.uc.Request(ctx, "owner-1", 1000, "maria@example.com", model.PixKeyEmail); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("provider-rejected key err = %v, want ErrInvalidArgument", err)
	}
}

func TestRequestWithdrawalTransferFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 0)
	f.seedPaidPayment(t, "pay-1", 10000)
	f.gateway.transferErr = errors.New("provider down")

	if _, err := f.uc.Request(ctx, "owner-1", 1000, "maria@example.com", model.PixKeyEmail); err == nil {
		t.Fatal("Request should surface the transfer failure")
	}

	list, _ := f.withdrawals.ListByOwner(ctx, "owner-1")
	if len(list) != 1 || list[0].Status != model.WithdrawalStatusFailed {
		t.Fatalf("withdrawals = %+v, want one failed row", list)
	}
}

func TestGetRefreshesProcessingWithdrawal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newWithdrawalFixture(t)
	f.seedOwner(t, 0)
	f.seedPaidPayment(t, "pay-1", 10000)

	w, err := f.uc.Request(ctx, "owner-1", 1000, "maria@example.com", model.PixKeyEmail)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}

	tr := f.gateway.transfers[w.TransferID]
	tr.Status = "done"
	f.gateway.transfers[w.TransferID] = tr

	got, err := f.uc.Get(ctx, "owner-1", w.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Status != model.WithdrawalStatusDone {
		t.Fatalf("status = %s, want done after refresh", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed at must be stamped when the transfer is done")
	}

	if _, err := f.uc.Get(ctx, "owner-2", w.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign owner err = %v, want ErrForbidden", err)
	}
}
