package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	const q = `
INSERT INTO bot_activation_codes (id, bot_id, code, used_at, used_by_telegram_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.BotID, code.Code, code.UsedAt, code.UsedByTelegramID, code.CreatedAt, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save activation code: %w", err)
	}
	return nil
}

// FindUnused is the redemption lookup. The used_at IS NULL predicate is what
// makes a second redemption of the same code a no-op.
func (r *activationCodeRepo) FindUnused(ctx context.Context, tx repository.Tx, code, botID string) (*model.ActivationCode, error) {
	const q = `
SELECT id, bot_id, code, used_at, used_by_telegram_id, created_at, expires_at
  FROM bot_activation_codes
 WHERE code = $1 AND bot_id = $2 AND used_at IS NULL
 FOR UPDATE;
`
	row, err := pickRow(ctx, r.pool, tx, q, code, botID)
	if err != nil {
		return nil, err
	}

	var ac model.ActivationCode
	err = row.Scan(&ac.ID, &ac.BotID, &ac.Code, &ac.UsedAt, &ac.UsedByTelegramID, &ac.CreatedAt, &ac.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

func (r *activationCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, codeID string, at time.Time, byTelegramID int64) error {
	const q = `
UPDATE bot_activation_codes
   SET used_at = $2, used_by_telegram_id = $3
 WHERE id = $1 AND used_at IS NULL;
`
	tag, err := execSQL(ctx, r.pool, tx, q, codeID, at, byTelegramID)
	if err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCodeAlreadyUsed
	}
	return nil
}

func (r *activationCodeRepo) ExpireUnused(ctx context.Context, tx repository.Tx, botID string, at time.Time) error {
	const q = `
UPDATE bot_activation_codes
   SET expires_at = $2
 WHERE bot_id = $1 AND used_at IS NULL AND expires_at > $2;
`
	_, err := execSQL(ctx, r.pool, tx, q, botID, at)
	if err != nil {
		return fmt.Errorf("expire unused codes: %w", err)
	}
	return nil
}
