package web

import (
	"time"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/usecase"
)

// View structs shape API responses. Bot views never carry the token.

type OwnerView struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	FeePercent int       `json:"fee_percent"`
	CreatedAt  time.Time `json:"created_at"`
}

func ownerView(o *model.Owner) OwnerView {
	return OwnerView{ID: o.ID, Email: o.Email, Name: o.Name, FeePercent: o.FeePercent, CreatedAt: o.CreatedAt}
}

type BotView struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Username         string     `json:"username"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	WelcomeMessage   string     `json:"welcome_message"`
	WelcomeMediaURL  string     `json:"welcome_media_url,omitempty"`
	WelcomeMediaKind string     `json:"welcome_media_kind"`
	IsActivated      bool       `json:"is_activated"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	WebhookURL       string     `json:"webhook_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func botView(b *model.Bot) BotView {
	return BotView{
		ID:               b.ID,
		Name:             b.Name,
		Username:         b.Username,
		Description:      b.Description,
		Status:           string(b.Status),
		WelcomeMessage:   b.WelcomeMessage,
		WelcomeMediaURL:  b.WelcomeMediaURL,
		WelcomeMediaKind: string(b.WelcomeMediaKind),
		IsActivated:      b.IsActivated,
		ActivatedAt:      b.ActivatedAt,
		WebhookURL:       b.WebhookURL,
		CreatedAt:        b.CreatedAt,
	}
}

func botViews(bots []*model.Bot) []BotView {
	out := make([]BotView, 0, len(bots))
	for _, b := range bots {
		out = append(out, botView(b))
	}
	return out
}

type PlanView struct {
	ID          string    `json:"id"`
	BotID       string    `json:"bot_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	PriceLabel  string    `json:"price_label"`
	DaysAccess  int       `json:"days_access"`
	IsActive    bool      `json:"is_active"`
	SalesCount  int       `json:"sales_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func planView(p *model.Plan) PlanView {
	return PlanView{
		ID:          p.ID,
		BotID:       p.BotID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		PriceLabel:  p.PriceLabel(),
		DaysAccess:  p.DaysAccess,
		IsActive:    p.IsActive,
		SalesCount:  p.SalesCount,
		CreatedAt:   p.CreatedAt,
	}
}

func planViews(plans []*model.Plan) []PlanView {
	out := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, planView(p))
	}
	return out
}

type PaymentView struct {
	ID           string     `json:"id"`
	BotID        string     `json:"bot_id"`
	PlanID       string     `json:"plan_id"`
	AmountCents  int64      `json:"amount_cents"`
	Status       string     `json:"status"`
	PixCopyPaste string     `json:"pix_copy_paste,omitempty"`
	QRCodeBase64 string     `json:"qr_code_base64,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func paymentView(p *model.Payment) PaymentView {
	return PaymentView{
		ID:           p.ID,
		BotID:        p.BotID,
		PlanID:       p.PlanID,
		AmountCents:  p.AmountCents,
		Status:       string(p.Status),
		PixCopyPaste: p.PixCopyPaste,
		QRCodeBase64: p.QRCodeBase64,
		ExpiresAt:    p.ExpiresAt,
		PaidAt:       p.PaidAt,
		CreatedAt:    p.CreatedAt,
	}
}

type GroupView struct {
	ID             string    `json:"id"`
	BotID          string    `json:"bot_id"`
	TelegramChatID int64     `json:"telegram_chat_id"`
	Title          string    `json:"title"`
	IsVIP          bool      `json:"is_vip"`
	CreatedAt      time.Time `json:"created_at"`
}

func groupViews(groups []*model.Group) []GroupView {
	out := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupView{
			ID:             g.ID,
			BotID:          g.BotID,
			TelegramChatID: g.TelegramChatID,
			Title:          g.Title,
			IsVIP:          g.IsVIP,
			CreatedAt:      g.CreatedAt,
		})
	}
	return out
}

type MemberView struct {
	TelegramUserID int64      `json:"telegram_user_id"`
	Name           string     `json:"name"`
	Username       string     `json:"username,omitempty"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	IsAdmin        bool       `json:"is_admin"`
	PaidUntil      *time.Time `json:"paid_until,omitempty"`
	Status         string     `json:"status"`
}

func memberViews(members []usecase.MemberView) []MemberView {
	out := make([]MemberView, 0, len(members))
	for _, mv := range members {
		m := mv.Member
		out = append(out, MemberView{
			TelegramUserID: m.TelegramUserID,
			Name:           m.Name,
			Username:       m.Username,
			AvatarURL:      m.AvatarURL,
			IsAdmin:        m.IsAdmin,
			PaidUntil:      m.PaidUntil,
			Status:         string(mv.Status),
		})
	}
	return out
}

type WithdrawalView struct {
	ID          string     `json:"id"`
	AmountCents int64      `json:"amount_cents"`
	PixKey      string     `json:"pix_key"`
	PixKeyKind  string     `json:"pix_key_kind"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func withdrawalView(w *model.Withdrawal) WithdrawalView {
	return WithdrawalView{
		ID:          w.ID,
		AmountCents: w.AmountCents,
		PixKey:      w.PixKey,
		PixKeyKind:  string(w.PixKeyKind),
		Status:      string(w.Status),
		CreatedAt:   w.CreatedAt,
		CompletedAt: w.CompletedAt,
	}
}

func withdrawalViews(ws []*model.Withdrawal) []WithdrawalView {
	out := make([]WithdrawalView, 0, len(ws))
	for _, w := range ws {
		out = append(out, withdrawalView(w))
	}
	return out
}

type SaleView struct {
	ID              string     `json:"id"`
	BotID           string     `json:"bot_id"`
	PlanID          string     `json:"plan_id"`
	PayerTelegramID int64      `json:"payer_telegram_id"`
	AmountCents     int64      `json:"amount_cents"`
	AccessUntil     *time.Time `json:"access_until,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func saleViews(sales []*model.Sale) []SaleView {
	out := make([]SaleView, 0, len(sales))
	for _, s := range sales {
		out = append(out, SaleView{
			ID:              s.ID,
			BotID:           s.BotID,
			PlanID:          s.PlanID,
			PayerTelegramID: s.PayerTelegramID,
			AmountCents:     s.AmountCents,
			AccessUntil:     s.AccessUntil,
			CreatedAt:       s.CreatedAt,
		})
	}
	return out
}
