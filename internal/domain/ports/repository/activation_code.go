package repository

import (
	"context"
	"time"

	"blackinpay/internal/domain/model"
)

// ActivationCodeRepository is the port for managing bot activation codes.
type ActivationCodeRepository interface {
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// FindUnused finds an unredeemed code by (code, botID). Expired codes are
	// still returned so the caller can distinguish "expired" from "unknown".
	FindUnused(ctx context.Context, tx Tx, code, botID string) (*model.ActivationCode, error)
	// MarkUsed stamps the code as redeemed exactly once.
	MarkUsed(ctx context.Context, tx Tx, codeID string, at time.Time, byTelegramID int64) error
	// ExpireUnused force-expires every unredeemed code of a bot; called when a
	// new code is generated so at most one code is live per bot.
	ExpireUnused(ctx context.Context, tx Tx, botID string, at time.Time) error
}
