package web

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/usecase"
)

// --- Mock use cases and ports; only the methods the handlers under test
// touch are implemented, the embedded interface covers the rest. ---

type mockDispatcher struct {
	mu      sync.Mutex
	handled []string // bot ids in call order
	err     error
}

func (m *mockDispatcher) HandleUpdate(_ context.Context, botID string, _ tgbotapi.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handled = append(m.handled, botID)
	return m.err
}

type mockOwnerUC struct {
	usecase.OwnerUseCase
	owner       *model.Owner
	registerErr error
	loginErr    error
}

func (m *mockOwnerUC) Register(_ context.Context, email, name, _ string) (*model.Owner, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.owner, nil
}

func (m *mockOwnerUC) Login(_ context.Context, _, _ string) (*model.Owner, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.owner, nil
}

func (m *mockOwnerUC) Get(_ context.Context, id string) (*model.Owner, error) {
	if m.owner == nil || m.owner.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.owner, nil
}

type mockPaymentUC struct {
	usecase.PaymentUseCase
	payment      *model.Payment
	confirmedTx  []string
	confirmErr   error
	createErr    error
	polledIDs    []string
	mu           sync.Mutex
}

func (m *mockPaymentUC) Create(_ context.Context, botID, planID string, payerTelegramID int64, payerName string) (*model.Payment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.payment, nil
}

func (m *mockPaymentUC) Get(_ context.Context, paymentID string) (*model.Payment, error) {
	if m.payment == nil || m.payment.ID != paymentID {
		return nil, domain.ErrNotFound
	}
	return m.payment, nil
}

func (m *mockPaymentUC) PollStatus(_ context.Context, paymentID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polledIDs = append(m.polledIDs, paymentID)
	return m.payment, nil
}

func (m *mockPaymentUC) ConfirmByProviderTx(_ context.Context, providerTxID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmedTx = append(m.confirmedTx, providerTxID)
	return m.confirmErr
}

type mockBotRepo struct {
	repository.BotRepository
	byToken map[string]*model.Bot
}

func (m *mockBotRepo) FindByToken(_ context.Context, token string) (*model.Bot, error) {
	bot, ok := m.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return bot, nil
}

// --- fake redis backing the rate limiter ---

type fakeRedis struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: make(map[string]int64)}
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func (f *fakeRedis) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (f *fakeRedis) Get(context.Context, string) (string, error) { return "", domain.ErrNotFound }

func (f *fakeRedis) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedis) Expire(context.Context, string, time.Duration) error { return nil }

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.counts, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }
