package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.OwnerRepository = (*ownerRepo)(nil)

type ownerRepo struct {
	pool *pgxpool.Pool
}

func NewOwnerRepo(pool *pgxpool.Pool) repository.OwnerRepository {
	return &ownerRepo{pool: pool}
}

func (r *ownerRepo) Save(ctx context.Context, o *model.Owner) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	const q = `
INSERT INTO owners (id, email, name, password_hash, telegram_id, fee_percent, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE SET
  name          = EXCLUDED.name,
  password_hash = EXCLUDED.password_hash,
  telegram_id   = EXCLUDED.telegram_id,
  updated_at    = now();
`
	_, err := r.pool.Exec(ctx, q, o.ID, o.Email, o.Name, o.PasswordHash, o.TelegramID, o.FeePercent, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("save owner: %w", err)
	}
	return nil
}

const ownerCols = `id, email, name, password_hash, telegram_id, fee_percent, created_at, updated_at`

func scanOwner(row pgx.Row) (*model.Owner, error) {
	var o model.Owner
	err := row.Scan(&o.ID, &o.Email, &o.Name, &o.PasswordHash, &o.TelegramID, &o.FeePercent, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &o, nil
}

func (r *ownerRepo) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ownerCols+` FROM owners WHERE id = $1;`, id)
	return scanOwner(row)
}

func (r *ownerRepo) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ownerCols+` FROM owners WHERE email = $1;`, email)
	return scanOwner(row)
}

func (r *ownerRepo) UpdateFeePercent(ctx context.Context, ownerID string, feePercent int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE owners SET fee_percent = $2, updated_at = now() WHERE id = $1;`,
		ownerID, feePercent)
	if err != nil {
		return fmt.Errorf("update fee percent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
