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
	"blackinpay/internal/infra/security"
)

// Ensure implementation satisfies the interface.
var _ repository.BotRepository = (*botRepo)(nil)

// botRepo persists bots with the Telegram token encrypted at rest. A separate
// token_digest column (SHA-256 hex, computed in SQL) supports FindByToken
// without decrypting every row.
type botRepo struct {
	pool *pgxpool.Pool
	enc  *security.EncryptionService
}

func NewBotRepo(pool *pgxpool.Pool, enc *security.EncryptionService) repository.BotRepository {
	return &botRepo{pool: pool, enc: enc}
}

const botCols = `id, owner_id, token_enc, name, username, description, status,
       welcome_message, welcome_media_url, welcome_media_kind,
       is_activated, activated_at, activated_by_telegram_id, activated_chat_id,
       webhook_url, created_at, updated_at`

func (r *botRepo) Save(ctx context.Context, b *model.Bot) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	tokenEnc, err := r.enc.Encrypt(b.Token)
	if err != nil {
		return fmt.Errorf("encrypt bot token: %w", err)
	}
	const q = `
INSERT INTO bots (id, owner_id, token_enc, token_digest, name, username, description, status,
                  welcome_message, welcome_media_url, welcome_media_kind,
                  is_activated, activated_at, activated_by_telegram_id, activated_chat_id,
                  webhook_url, created_at, updated_at)
VALUES ($1, $2, $3, encode(sha256($4::bytea), 'hex'), $5, $6, $7, $8,
        $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
ON CONFLICT (id) DO UPDATE SET
  name               = EXCLUDED.name,
  username           = EXCLUDED.username,
  description        = EXCLUDED.description,
  status             = EXCLUDED.status,
  welcome_message    = EXCLUDED.welcome_message,
  welcome_media_url  = EXCLUDED.welcome_media_url,
  welcome_media_kind = EXCLUDED.welcome_media_kind,
  updated_at         = now();
`
	_, err = r.pool.Exec(ctx, q,
		b.ID, b.OwnerID, tokenEnc, b.Token, b.Name, b.Username, b.Description, b.Status,
		b.WelcomeMessage, b.WelcomeMediaURL, b.WelcomeMediaKind,
		b.IsActivated, b.ActivatedAt, b.ActivatedByTelegramID, b.ActivatedChatID,
		b.WebhookURL, b.CreatedAt,
	)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return domain.ErrTokenInUse
		}
		return fmt.Errorf("save bot: %w", err)
	}
	return nil
}

func (r *botRepo) scan(row pgx.Row) (*model.Bot, error) {
	var b model.Bot
	var tokenEnc string
	err := row.Scan(
		&b.ID, &b.OwnerID, &tokenEnc, &b.Name, &b.Username, &b.Description, &b.Status,
		&b.WelcomeMessage, &b.WelcomeMediaURL, &b.WelcomeMediaKind,
		&b.IsActivated, &b.ActivatedAt, &b.ActivatedByTelegramID, &b.ActivatedChatID,
		&b.WebhookURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	token, err := r.enc.Decrypt(tokenEnc)
	if err != nil {
		return nil, fmt.Errorf("decrypt bot token: %w", err)
	}
	b.Token = token
	return &b, nil
}

func (r *botRepo) FindByID(ctx context.Context, id string) (*model.Bot, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+botCols+` FROM bots WHERE id = $1;`, id)
	return r.scan(row)
}

func (r *botRepo) FindByToken(ctx context.Context, token string) (*model.Bot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+botCols+` FROM bots WHERE token_digest = encode(sha256($1::bytea), 'hex');`,
		token)
	return r.scan(row)
}

func (r *botRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Bot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+botCols+` FROM bots WHERE owner_id = $1 ORDER BY created_at;`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	defer rows.Close()

	var out []*model.Bot
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *botRepo) MarkActivated(ctx context.Context, tx repository.Tx, botID string, at time.Time, byTelegramID, chatID int64) error {
	const q = `
UPDATE bots
   SET is_activated = TRUE,
       activated_at = $2,
       activated_by_telegram_id = $3,
       activated_chat_id = $4,
       status = 'active',
       updated_at = now()
 WHERE id = $1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, botID, at, byTelegramID, chatID)
	if err != nil {
		return fmt.Errorf("mark bot activated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *botRepo) UpdateWebhookURL(ctx context.Context, botID, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bots SET webhook_url = $2, updated_at = now() WHERE id = $1;`, botID, url)
	if err != nil {
		return fmt.Errorf("update webhook url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *botRepo) UpdateStatus(ctx context.Context, botID string, status model.BotStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bots SET status = $2, updated_at = now() WHERE id = $1;`, botID, status)
	if err != nil {
		return fmt.Errorf("update bot status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for plans, activation codes, payments,
// groups and members.
func (r *botRepo) Delete(ctx context.Context, botID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bots WHERE id = $1;`, botID)
	if err != nil {
		return fmt.Errorf("delete bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
