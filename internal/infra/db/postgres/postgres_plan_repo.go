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

// Ensure interface compliance
var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) repository.PlanRepository {
	return &planRepo{pool: pool}
}

const planCols = `id, bot_id, name, description, price_cents, days_access, is_active, sales_count, created_at, updated_at`

func (r *planRepo) Save(ctx context.Context, p *model.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const q = `
INSERT INTO plans (id, bot_id, name, description, price_cents, days_access, is_active, sales_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (id) DO UPDATE SET
  name        = EXCLUDED.name,
  description = EXCLUDED.description,
  price_cents = EXCLUDED.price_cents,
  days_access = EXCLUDED.days_access,
  is_active   = EXCLUDED.is_active,
  updated_at  = now();
`
	_, err := r.pool.Exec(ctx, q,
		p.ID, p.BotID, p.Name, p.Description, p.PriceCents, p.DaysAccess, p.IsActive, p.SalesCount, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func scanPlan(row pgx.Row) (*model.Plan, error) {
	var p model.Plan
	err := row.Scan(&p.ID, &p.BotID, &p.Name, &p.Description, &p.PriceCents, &p.DaysAccess, &p.IsActive, &p.SalesCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *planRepo) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+planCols+` FROM plans WHERE id = $1;`, id)
	return scanPlan(row)
}

func (r *planRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Plan, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *planRepo) ListByBot(ctx context.Context, botID string) ([]*model.Plan, error) {
	return r.list(ctx, `SELECT `+planCols+` FROM plans WHERE bot_id = $1 ORDER BY price_cents;`, botID)
}

func (r *planRepo) ListActiveByBot(ctx context.Context, botID string) ([]*model.Plan, error) {
	return r.list(ctx, `SELECT `+planCols+` FROM plans WHERE bot_id = $1 AND is_active ORDER BY price_cents;`, botID)
}

func (r *planRepo) IncrementSales(ctx context.Context, tx repository.Tx, planID string) error {
	tag, err := execSQL(ctx, r.pool, tx,
		`UPDATE plans SET sales_count = sales_count + 1, updated_at = now() WHERE id = $1;`, planID)
	if err != nil {
		return fmt.Errorf("increment sales: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *planRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	const q = `
SELECT COUNT(*)
  FROM plans p
  JOIN bots b ON b.id = p.bot_id
 WHERE b.owner_id = $1;
`
	var n int
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return n, nil
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
