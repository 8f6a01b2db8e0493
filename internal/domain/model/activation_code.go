package model

import (
	"time"
)

// ActivationCode is a single-use, time-boxed credential that proves a bot
// owner controls a Telegram group where the bot is present.
type ActivationCode struct {
	ID               string
	BotID            string
	Code             string     // shape XXXX-XXXX
	UsedAt           *time.Time // Pointer to allow for NULL
	UsedByTelegramID *int64
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// IsExpired reports whether the code can no longer be redeemed at the given time.
func (c *ActivationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsUsed reports whether the code has already been redeemed.
func (c *ActivationCode) IsUsed() bool { return c.UsedAt != nil }
