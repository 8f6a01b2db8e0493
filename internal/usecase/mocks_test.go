package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
)

// --- transaction manager ---

// memTxManager just runs the function; repos ignore the tx handle.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTx)
}

// --- bot config cache ---

// memBotCache is a pass-through cache with an invalidation counter.
type memBotCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *memBotCache) GetOrLoad(ctx context.Context, botID string, load func(ctx context.Context) (*model.Bot, error)) (*model.Bot, error) {
	return load(ctx)
}

func (c *memBotCache) Invalidate(_ context.Context, botID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, botID)
	return nil
}

// --- owner repo ---

type memOwnerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Owner
}

func newMemOwnerRepo() *memOwnerRepo {
	return &memOwnerRepo{store: make(map[string]*model.Owner)}
}

func (m *memOwnerRepo) Save(_ context.Context, o *model.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOwnerRepo) FindByID(_ context.Context, id string) (*model.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOwnerRepo) FindByEmail(_ context.Context, email string) (*model.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.store {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memOwnerRepo) UpdateFeePercent(_ context.Context, ownerID string, feePercent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[ownerID]
	if !ok {
		return domain.ErrNotFound
	}
	o.FeePercent = feePercent
	return nil
}

// --- bot repo ---

type memBotRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Bot
}

func newMemBotRepo() *memBotRepo {
	return &memBotRepo{store: make(map[string]*model.Bot)}
}

func (m *memBotRepo) Save(_ context.Context, b *model.Bot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ID] = &cp
	return nil
}

func (m *memBotRepo) FindByID(_ context.Context, id string) (*model.Bot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBotRepo) FindByToken(_ context.Context, token string) (*model.Bot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.store {
		if b.Token == token {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBotRepo) ListByOwner(_ context.Context, ownerID string) ([]*model.Bot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Bot
	for _, b := range m.store {
		if b.OwnerID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBotRepo) MarkActivated(_ context.Context, _ repository.Tx, botID string, at time.Time, byTelegramID, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[botID]
	if !ok {
		return domain.ErrNotFound
	}
	b.IsActivated = true
	b.ActivatedAt = &at
	b.ActivatedByTelegramID = &byTelegramID
	b.ActivatedChatID = &chatID
	b.Status = model.BotStatusActive
	return nil
}

func (m *memBotRepo) UpdateWebhookURL(_ context.Context, botID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[botID]
	if !ok {
		return domain.ErrNotFound
	}
	b.WebhookURL = url
	return nil
}

func (m *memBotRepo) UpdateStatus(_ context.Context, botID string, status model.BotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[botID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memBotRepo) Delete(_ context.Context, botID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, botID)
	return nil
}

// --- plan repo ---

type memPlanRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *memPlanRepo) Save(_ context.Context, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(_ context.Context, id string) (*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListByBot(_ context.Context, botID string) ([]*model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Plan
	for _, p := range m.store {
		if p.BotID == botID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memPlanRepo) ListActiveByBot(ctx context.Context, botID string) ([]*model.Plan, error) {
	all, _ := m.ListByBot(ctx, botID)
	var out []*model.Plan
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlanRepo) IncrementSales(_ context.Context, _ repository.Tx, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[planID]
	if !ok {
		return domain.ErrNotFound
	}
	p.SalesCount++
	return nil
}

func (m *memPlanRepo) CountByOwner(_ context.Context, _ string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memPlanRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// --- activation code repo ---

type memCodeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ActivationCode
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.ActivationCode)}
}

func (m *memCodeRepo) Save(_ context.Context, _ repository.Tx, c *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCodeRepo) FindUnused(_ context.Context, _ repository.Tx, code, botID string) (*model.ActivationCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Code == code && c.BotID == botID && c.UsedAt == nil {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCodeRepo) MarkUsed(_ context.Context, _ repository.Tx, codeID string, at time.Time, byTelegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[codeID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.UsedAt != nil {
		return domain.ErrCodeAlreadyUsed
	}
	c.UsedAt = &at
	c.UsedByTelegramID = &byTelegramID
	return nil
}

func (m *memCodeRepo) ExpireUnused(_ context.Context, _ repository.Tx, botID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.BotID == botID && c.UsedAt == nil && c.ExpiresAt.After(at) {
			c.ExpiresAt = at
		}
	}
	return nil
}

// --- payment repo ---

type memPaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]*model.Payment
	sales    map[string]*model.Sale
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]*model.Payment), sales: make(map[string]*model.Sale)}
}

func (m *memPaymentRepo) Save(_ context.Context, _ repository.Tx, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(_ context.Context, id string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) FindByExternalID(_ context.Context, externalID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ExternalID == externalID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) FindByProviderTxID(_ context.Context, providerTxID string) (*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ProviderTxID == providerTxID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPaymentRepo) MarkPaid(_ context.Context, _ repository.Tx, paymentID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok || p.Status != model.PaymentStatusPending {
		return domain.ErrNotFound
	}
	p.Status = model.PaymentStatusPaid
	p.PaidAt = &at
	return nil
}

func (m *memPaymentRepo) MarkExpired(_ context.Context, _ repository.Tx, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[paymentID]
	if !ok || p.Status != model.PaymentStatusPending {
		return domain.ErrNotFound
	}
	p.Status = model.PaymentStatusExpired
	return nil
}

func (m *memPaymentRepo) ListPendingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Payment
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memPaymentRepo) SaveSale(_ context.Context, _ repository.Tx, s *model.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sales {
		if existing.PaymentID == s.PaymentID {
			return nil // mirrors ON CONFLICT (payment_id) DO NOTHING
		}
	}
	cp := *s
	m.sales[s.ID] = &cp
	return nil
}

func (m *memPaymentRepo) ListRecentSales(_ context.Context, _ string, limit int) ([]*model.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Sale
	for _, s := range m.sales {
		cp := *s
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memPaymentRepo) PaidTotalCents(_ context.Context, _ string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusPaid {
			total += p.AmountCents
		}
	}
	return total, nil
}

func (m *memPaymentRepo) CountSales(_ context.Context, _ string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sales), nil
}

// --- group repo ---

type memGroupRepo struct {
	mu      sync.RWMutex
	groups  map[string]*model.Group
	members map[string]*model.GroupMember // key group_id/tg_user_id
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{groups: make(map[string]*model.Group), members: make(map[string]*model.GroupMember)}
}

func memberKey(groupID string, tgUserID int64) string {
	return fmt.Sprintf("%s/%d", groupID, tgUserID)
}

func (m *memGroupRepo) SaveGroup(_ context.Context, g *model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.groups[g.ID] = &cp
	return nil
}

func (m *memGroupRepo) FindGroupByID(_ context.Context, id string) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGroupRepo) FindGroupByChatID(_ context.Context, botID string, chatID int64) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.groups {
		if g.BotID == botID && g.TelegramChatID == chatID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memGroupRepo) ListGroupsByBot(_ context.Context, botID string) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Group
	for _, g := range m.groups {
		if g.BotID == botID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memGroupRepo) UpsertMember(_ context.Context, _ repository.Tx, member *model.GroupMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(member.GroupID, member.TelegramUserID)
	if existing, ok := m.members[key]; ok {
		existing.Name = member.Name
		existing.Username = member.Username
		existing.AvatarURL = member.AvatarURL
		existing.IsAdmin = member.IsAdmin
		return nil
	}
	cp := *member
	m.members[key] = &cp
	return nil
}

func (m *memGroupRepo) ListMembers(_ context.Context, groupID string) ([]*model.GroupMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.GroupMember
	for _, mem := range m.members {
		if mem.GroupID == groupID {
			cp := *mem
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memGroupRepo) ExtendMemberAccess(_ context.Context, _ repository.Tx, groupID string, telegramUserID int64, until *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(groupID, telegramUserID)
	mem, ok := m.members[key]
	if !ok {
		m.members[key] = &model.GroupMember{GroupID: groupID, TelegramUserID: telegramUserID, PaidUntil: until}
		return nil
	}
	switch {
	case until == nil:
		mem.PaidUntil = nil
	case mem.PaidUntil == nil:
		// lifetime always wins
	case until.After(*mem.PaidUntil):
		mem.PaidUntil = until
	}
	return nil
}

func (m *memGroupRepo) CountActiveMembers(_ context.Context, _ string, now time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, mem := range m.members {
		if mem.PaidUntil == nil || mem.PaidUntil.After(now) {
			n++
		}
	}
	return n, nil
}

func (m *memGroupRepo) ListMembersExpiringBefore(_ context.Context, now, cutoff time.Time, limit int) ([]*model.GroupMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.GroupMember
	for _, mem := range m.members {
		if mem.PaidUntil != nil && mem.PaidUntil.After(now) && !mem.PaidUntil.After(cutoff) {
			cp := *mem
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// --- withdrawal repo ---

type memWithdrawalRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Withdrawal
}

func newMemWithdrawalRepo() *memWithdrawalRepo {
	return &memWithdrawalRepo{store: make(map[string]*model.Withdrawal)}
}

func (m *memWithdrawalRepo) Save(_ context.Context, w *model.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.store[w.ID] = &cp
	return nil
}

func (m *memWithdrawalRepo) FindByID(_ context.Context, id string) (*model.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWithdrawalRepo) ListByOwner(_ context.Context, ownerID string) ([]*model.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Withdrawal
	for _, w := range m.store {
		if w.OwnerID == ownerID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memWithdrawalRepo) WithdrawnTotalCents(_ context.Context, ownerID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, w := range m.store {
		if w.OwnerID == ownerID && w.Status != model.WithdrawalStatusFailed {
			total += w.AmountCents
		}
	}
	return total, nil
}

// --- telegram adapter ---

type sentMessage struct {
	Method  string
	Token   string
	ChatID  int64
	ReplyTo int
	Text    string
	URL     string
	Rows    [][]adapter.InlineButton
}

// fakeTelegram records every outbound call for assertions.
type fakeTelegram struct {
	mu        sync.Mutex
	sent      []sentMessage
	answered  []string
	edits     []sentMessage
	identity  adapter.BotIdentity
	getMeErr  error
	webhooks  map[string]string // token -> url
	admins    []adapter.ChatMemberInfo
	chatTitle string
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{
		identity: adapter.BotIdentity{ID: 42, Username: "test_bot", Name: "Test Bot"},
		webhooks: make(map[string]string),
	}
}

func (f *fakeTelegram) record(m sentMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
}

func (f *fakeTelegram) sentMessages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTelegram) GetMe(_ context.Context, token string) (adapter.BotIdentity, error) {
	if f.getMeErr != nil {
		return adapter.BotIdentity{}, f.getMeErr
	}
	return f.identity, nil
}

func (f *fakeTelegram) GetChat(_ context.Context, _ string, chatID int64) (adapter.ChatInfo, error) {
	return adapter.ChatInfo{ID: chatID, Type: "supergroup", Title: f.chatTitle}, nil
}

func (f *fakeTelegram) GetChatMember(_ context.Context, _ string, _ int64, userID int64) (adapter.ChatMemberInfo, error) {
	return adapter.ChatMemberInfo{TelegramID: userID, Status: "member"}, nil
}

func (f *fakeTelegram) GetChatAdministrators(_ context.Context, _ string, _ int64) ([]adapter.ChatMemberInfo, error) {
	return f.admins, nil
}

func (f *fakeTelegram) GetUserProfilePhotoURL(_ context.Context, _ string, _ int64) (string, error) {
	return "", nil
}

func (f *fakeTelegram) SendMessage(_ context.Context, token string, chatID int64, text string, rows [][]adapter.InlineButton) error {
	f.record(sentMessage{Method: "sendMessage", Token: token, ChatID: chatID, Text: text, Rows: rows})
	return nil
}

func (f *fakeTelegram) ReplyMessage(_ context.Context, token string, chatID int64, replyTo int, text string) error {
	f.record(sentMessage{Method: "replyMessage", Token: token, ChatID: chatID, ReplyTo: replyTo, Text: text})
	return nil
}

func (f *fakeTelegram) SendPhoto(_ context.Context, token string, chatID int64, photoURL, caption string, rows [][]adapter.InlineButton) error {
	f.record(sentMessage{Method: "sendPhoto", Token: token, ChatID: chatID, Text: caption, URL: photoURL, Rows: rows})
	return nil
}

func (f *fakeTelegram) SendVideo(_ context.Context, token string, chatID int64, videoURL, caption string, rows [][]adapter.InlineButton) error {
	f.record(sentMessage{Method: "sendVideo", Token: token, ChatID: chatID, Text: caption, URL: videoURL, Rows: rows})
	return nil
}

func (f *fakeTelegram) SendAnimation(_ context.Context, token string, chatID int64, animationURL, caption string, rows [][]adapter.InlineButton) error {
	f.record(sentMessage{Method: "sendAnimation", Token: token, ChatID: chatID, Text: caption, URL: animationURL, Rows: rows})
	return nil
}

func (f *fakeTelegram) AnswerCallbackQuery(_ context.Context, _ string, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeTelegram) EditMessageText(_ context.Context, token string, chatID int64, messageID int, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{Method: "editMessageText", Token: token, ChatID: chatID, ReplyTo: messageID, Text: text})
	return nil
}

func (f *fakeTelegram) EditMessageCaption(_ context.Context, token string, chatID int64, messageID int, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{Method: "editMessageCaption", Token: token, ChatID: chatID, ReplyTo: messageID, Text: caption})
	return nil
}

func (f *fakeTelegram) SetWebhook(_ context.Context, token, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhooks[token] = url
	return nil
}

func (f *fakeTelegram) DeleteWebhook(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.webhooks, token)
	return nil
}

func (f *fakeTelegram) GetWebhookInfo(_ context.Context, token string) (adapter.WebhookInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return adapter.WebhookInfo{URL: f.webhooks[token]}, nil
}

// --- pix gateway ---

type fakeGateway struct {
	mu           sync.Mutex
	charges      map[string]adapter.PixCharge // by provider tx id
	createErr    error
	transferErr  error
	keyValid     bool
	balanceCents int64
	nextTxID     int
	transfers    map[string]adapter.PixTransfer
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{charges: make(map[string]adapter.PixCharge), transfers: make(map[string]adapter.PixTransfer), keyValid: true}
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateCharge(_ context.Context, amountCents int64, _, externalID string, _ time.Duration) (adapter.PixCharge, error) {
	if g.createErr != nil {
		return adapter.PixCharge{}, g.createErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextTxID++
	charge := adapter.PixCharge{
		ProviderTxID: fmt.Sprintf("tx-%d", g.nextTxID),
		Status:       "created",
		AmountCents:  amountCents,
		CopyPaste:    "00020126pix" + externalID,
		QRCodeBase64: "qr==",
	}
	g.charges[charge.ProviderTxID] = charge
	return charge, nil
}

func (g *fakeGateway) GetCharge(_ context.Context, providerTxID string) (adapter.PixCharge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	charge, ok := g.charges[providerTxID]
	if !ok {
		return adapter.PixCharge{}, domain.ErrNotFound
	}
	return charge, nil
}

func (g *fakeGateway) setChargeStatus(providerTxID, status string, paidAt *time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	charge := g.charges[providerTxID]
	charge.Status = status
	charge.PaidAt = paidAt
	g.charges[providerTxID] = charge
}

func (g *fakeGateway) CreateTransfer(_ context.Context, amountCents int64, _, _, externalID string) (adapter.PixTransfer, error) {
	if g.transferErr != nil {
		return adapter.PixTransfer{}, g.transferErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextTxID++
	tr := adapter.PixTransfer{
		TransferID:  fmt.Sprintf("tr-%d", g.nextTxID),
		Status:      "processing",
		AmountCents: amountCents,
		CreatedAt:   time.Now(),
	}
	g.transfers[tr.TransferID] = tr
	return tr, nil
}

func (g *fakeGateway) GetTransfer(_ context.Context, transferID string) (adapter.PixTransfer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tr, ok := g.transfers[transferID]
	if !ok {
		return adapter.PixTransfer{}, domain.ErrNotFound
	}
	return tr, nil
}

func (g *fakeGateway) ListTransfers(_ context.Context, _ int) ([]adapter.PixTransfer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []adapter.PixTransfer
	for _, tr := range g.transfers {
		out = append(out, tr)
	}
	return out, nil
}

func (g *fakeGateway) Balance(_ context.Context) (int64, error) {
	return g.balanceCents, nil
}

func (g *fakeGateway) ValidatePixKey(_ context.Context, _, _ string) (bool, error) {
	return g.keyValid, nil
}

// --- password hasher ---

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrUnauthorized
	}
	return nil
}
