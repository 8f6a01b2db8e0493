package model

import (
	"time"

	"blackinpay/internal/domain"
)

type BotStatus string

const (
	BotStatusSetupRequired BotStatus = "setup_required"
	BotStatusActive        BotStatus = "active"
	BotStatusInactive      BotStatus = "inactive"
	BotStatusSuspended     BotStatus = "suspended"
)

type MediaKind string

const (
	MediaKindNone  MediaKind = "none"
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// Bot is one tenant Telegram bot: the credential plus how it behaves.
// Token is stored encrypted at rest; repositories handle the round-trip.
type Bot struct {
	ID          string
	OwnerID     string
	Token       string // plaintext in memory only
	Name        string
	Username    string
	Description string
	Status      BotStatus

	WelcomeMessage   string
	WelcomeMediaURL  string
	WelcomeMediaKind MediaKind

	IsActivated           bool
	ActivatedAt           *time.Time // Pointer to allow for NULL
	ActivatedByTelegramID *int64
	ActivatedChatID       *int64

	WebhookURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Bot) IsZero() bool { return b == nil || b.ID == "" }

// NewBot validates and constructs an unactivated bot.
func NewBot(id, ownerID, token, name, username string) (*Bot, error) {
	if id == "" || ownerID == "" || token == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Bot{
		ID:               id,
		OwnerID:          ownerID,
		Token:            token,
		Name:             name,
		Username:         username,
		Status:           BotStatusSetupRequired,
		WelcomeMediaKind: MediaKindNone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
