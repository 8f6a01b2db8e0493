package repository

import (
	"context"
	"time"

	"blackinpay/internal/domain/model"
)

// BotRepository manages tenant bot rows. Tokens are stored encrypted; the
// implementation is responsible for the encrypt/decrypt round-trip.
type BotRepository interface {
	Save(ctx context.Context, bot *model.Bot) error
	FindByID(ctx context.Context, id string) (*model.Bot, error)
	FindByToken(ctx context.Context, token string) (*model.Bot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Bot, error)
	// MarkActivated flips the activation state; runs inside the redemption transaction.
	MarkActivated(ctx context.Context, tx Tx, botID string, at time.Time, byTelegramID, chatID int64) error
	UpdateWebhookURL(ctx context.Context, botID, url string) error
	UpdateStatus(ctx context.Context, botID string, status model.BotStatus) error
	// Delete removes the bot and cascades plans, codes, payments, groups and members.
	Delete(ctx context.Context, botID string) error
}
