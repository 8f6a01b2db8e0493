package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
)

// Compile-time check
var _ BotUseCase = (*botUC)(nil)

// BotSettings carries the editable welcome configuration.
type BotSettings struct {
	Name             string
	Description      string
	WelcomeMessage   string
	WelcomeMediaURL  string
	WelcomeMediaKind model.MediaKind
}

type BotUseCase interface {
	// Register validates the token against getMe and stores the bot.
	Register(ctx context.Context, ownerID, token string) (*model.Bot, error)
	Get(ctx context.Context, ownerID, botID string) (*model.Bot, error)
	List(ctx context.Context, ownerID string) ([]*model.Bot, error)
	UpdateSettings(ctx context.Context, ownerID, botID string, s BotSettings) (*model.Bot, error)
	UpdateStatus(ctx context.Context, ownerID, botID string, status model.BotStatus) error
	// Delete removes the Telegram webhook best-effort, then cascades the rows.
	Delete(ctx context.Context, ownerID, botID string) error

	SetWebhook(ctx context.Context, ownerID, botID string) (string, error)
	DeleteWebhook(ctx context.Context, ownerID, botID string) error
	WebhookInfo(ctx context.Context, ownerID, botID string) (adapter.WebhookInfo, error)
}

type botUC struct {
	bots          repository.BotRepository
	cache         repository.BotConfigCache
	tg            adapter.TelegramAPI
	publicBaseURL string
}

func NewBotUseCase(bots repository.BotRepository, cache repository.BotConfigCache, tg adapter.TelegramAPI, publicBaseURL string) *botUC {
	return &botUC{bots: bots, cache: cache, tg: tg, publicBaseURL: publicBaseURL}
}

// ownedBot loads a bot and enforces ownership in one place.
func (u *botUC) ownedBot(ctx context.Context, ownerID, botID string) (*model.Bot, error) {
	bot, err := u.bots.FindByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return bot, nil
}

func (u *botUC) Register(ctx context.Context, ownerID, token string) (*model.Bot, error) {
	if token == "" {
		return nil, domain.ErrInvalidArgument
	}
	identity, err := u.tg.GetMe(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("token rejected by telegram: %w", err)
	}

	bot, err := model.NewBot(uuid.NewString(), ownerID, token, identity.Name, identity.Username)
	if err != nil {
		return nil, err
	}
	bot.WelcomeMessage = fmt.Sprintf("🤖 Bem-vindo ao %s!", bot.Name)
	if err := u.bots.Save(ctx, bot); err != nil {
		return nil, err
	}
	return bot, nil
}

func (u *botUC) Get(ctx context.Context, ownerID, botID string) (*model.Bot, error) {
	return u.ownedBot(ctx, ownerID, botID)
}

func (u *botUC) List(ctx context.Context, ownerID string) ([]*model.Bot, error) {
	return u.bots.ListByOwner(ctx, ownerID)
}

func (u *botUC) UpdateSettings(ctx context.Context, ownerID, botID string, s BotSettings) (*model.Bot, error) {
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return nil, err
	}
	switch s.WelcomeMediaKind {
	case model.MediaKindNone, model.MediaKindPhoto, model.MediaKindVideo:
	default:
		return nil, domain.ErrInvalidArgument
	}
	if s.WelcomeMediaKind != model.MediaKindNone && s.WelcomeMediaURL == "" {
		return nil, domain.ErrInvalidArgument
	}

	if s.Name != "" {
		bot.Name = s.Name
	}
	bot.Description = s.Description
	bot.WelcomeMessage = s.WelcomeMessage
	bot.WelcomeMediaURL = s.WelcomeMediaURL
	bot.WelcomeMediaKind = s.WelcomeMediaKind
	if err := u.bots.Save(ctx, bot); err != nil {
		return nil, err
	}
	_ = u.cache.Invalidate(ctx, botID)
	return bot, nil
}

func (u *botUC) UpdateStatus(ctx context.Context, ownerID, botID string, status model.BotStatus) error {
	if _, err := u.ownedBot(ctx, ownerID, botID); err != nil {
		return err
	}
	switch status {
	case model.BotStatusActive, model.BotStatusInactive, model.BotStatusSuspended:
	default:
		return domain.ErrInvalidArgument
	}
	if err := u.bots.UpdateStatus(ctx, botID, status); err != nil {
		return err
	}
	return u.cache.Invalidate(ctx, botID)
}

func (u *botUC) Delete(ctx context.Context, ownerID, botID string) error {
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return err
	}
	// Webhook removal is best-effort: a dead token must not make the bot
	// undeletable.
	_ = u.tg.DeleteWebhook(ctx, bot.Token)

	if err := u.bots.Delete(ctx, botID); err != nil {
		return err
	}
	return u.cache.Invalidate(ctx, botID)
}

func (u *botUC) webhookURL(botID string) string {
	return fmt.Sprintf("%s/api/webhook/%s", u.publicBaseURL, botID)
}

func (u *botUC) SetWebhook(ctx context.Context, ownerID, botID string) (string, error) {
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return "", err
	}
	url := u.webhookURL(botID)
	if err := u.tg.SetWebhook(ctx, bot.Token, url); err != nil {
		return "", err
	}
	if err := u.bots.UpdateWebhookURL(ctx, botID, url); err != nil {
		return "", err
	}
	_ = u.cache.Invalidate(ctx, botID)
	return url, nil
}

func (u *botUC) DeleteWebhook(ctx context.Context, ownerID, botID string) error {
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return err
	}
	if err := u.tg.DeleteWebhook(ctx, bot.Token); err != nil {
		return err
	}
	if err := u.bots.UpdateWebhookURL(ctx, botID, ""); err != nil {
		return err
	}
	return u.cache.Invalidate(ctx, botID)
}

func (u *botUC) WebhookInfo(ctx context.Context, ownerID, botID string) (adapter.WebhookInfo, error) {
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return adapter.WebhookInfo{}, err
	}
	return u.tg.GetWebhookInfo(ctx, bot.Token)
}
