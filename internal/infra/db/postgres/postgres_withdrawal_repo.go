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
var _ repository.WithdrawalRepository = (*withdrawalRepo)(nil)

type withdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) repository.WithdrawalRepository {
	return &withdrawalRepo{pool: pool}
}

const withdrawalCols = `id, owner_id, amount_cents, pix_key, pix_key_kind, status, external_id, transfer_id, created_at, updated_at, completed_at`

func (r *withdrawalRepo) Save(ctx context.Context, w *model.Withdrawal) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	const q = `
INSERT INTO withdrawals (id, owner_id, amount_cents, pix_key, pix_key_kind, status, external_id, transfer_id, created_at, updated_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), $10)
ON CONFLICT (id) DO UPDATE SET
  status       = EXCLUDED.status,
  transfer_id  = EXCLUDED.transfer_id,
  completed_at = EXCLUDED.completed_at,
  updated_at   = now();
`
	_, err := r.pool.Exec(ctx, q,
		w.ID, w.OwnerID, w.AmountCents, w.PixKey, w.PixKeyKind, w.Status, w.ExternalID, w.TransferID, w.CreatedAt, w.CompletedAt)
	if err != nil {
		return fmt.Errorf("save withdrawal: %w", err)
	}
	return nil
}

func scanWithdrawal(row pgx.Row) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := row.Scan(&w.ID, &w.OwnerID, &w.AmountCents, &w.PixKey, &w.PixKeyKind, &w.Status, &w.ExternalID, &w.TransferID, &w.CreatedAt, &w.UpdatedAt, &w.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &w, nil
}

func (r *withdrawalRepo) FindByID(ctx context.Context, id string) (*model.Withdrawal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+withdrawalCols+` FROM withdrawals WHERE id = $1;`, id)
	return scanWithdrawal(row)
}

func (r *withdrawalRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Withdrawal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+withdrawalCols+` FROM withdrawals WHERE owner_id = $1 ORDER BY created_at DESC;`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var out []*model.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *withdrawalRepo) WithdrawnTotalCents(ctx context.Context, ownerID string) (int64, error) {
	const q = `
SELECT COALESCE(SUM(amount_cents), 0)
  FROM withdrawals
 WHERE owner_id = $1 AND status <> 'failed';
`
	var total int64
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("withdrawn total: %w", err)
	}
	return total, nil
}
