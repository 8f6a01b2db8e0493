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
var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepo{pool: pool}
}

const paymentCols = `id, bot_id, plan_id, payer_telegram_id, payer_name, amount_cents, method, status,
       external_id, provider_tx_id, pix_copy_paste, qr_code_base64, expires_at, paid_at, created_at, updated_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const q = `
INSERT INTO payments (id, bot_id, plan_id, payer_telegram_id, payer_name, amount_cents, method, status,
                      external_id, provider_tx_id, pix_copy_paste, qr_code_base64, expires_at, paid_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
ON CONFLICT (id) DO UPDATE SET
  status         = EXCLUDED.status,
  provider_tx_id = EXCLUDED.provider_tx_id,
  pix_copy_paste = EXCLUDED.pix_copy_paste,
  qr_code_base64 = EXCLUDED.qr_code_base64,
  paid_at        = EXCLUDED.paid_at,
  updated_at     = now();
`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.BotID, p.PlanID, p.PayerTelegramID, p.PayerName, p.AmountCents, p.Method, p.Status,
		p.ExternalID, p.ProviderTxID, p.PixCopyPaste, p.QRCodeBase64, p.ExpiresAt, p.PaidAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.BotID, &p.PlanID, &p.PayerTelegramID, &p.PayerName, &p.AmountCents, &p.Method, &p.Status,
		&p.ExternalID, &p.ProviderTxID, &p.PixCopyPaste, &p.QRCodeBase64, &p.ExpiresAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE id = $1;`, id)
	return scanPayment(row)
}

func (r *paymentRepo) FindByExternalID(ctx context.Context, externalID string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE external_id = $1;`, externalID)
	return scanPayment(row)
}

func (r *paymentRepo) FindByProviderTxID(ctx context.Context, providerTxID string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentCols+` FROM payments WHERE provider_tx_id = $1;`, providerTxID)
	return scanPayment(row)
}

// MarkPaid only moves pending rows, so a redelivered provider webhook finds
// zero rows and reports ErrNotFound instead of double-confirming.
func (r *paymentRepo) MarkPaid(ctx context.Context, tx repository.Tx, paymentID string, at time.Time) error {
	const q = `
UPDATE payments
   SET status = 'paid', paid_at = $2, updated_at = now()
 WHERE id = $1 AND status = 'pending';
`
	tag, err := execSQL(ctx, r.pool, tx, q, paymentID, at)
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) MarkExpired(ctx context.Context, tx repository.Tx, paymentID string) error {
	const q = `
UPDATE payments
   SET status = 'expired', updated_at = now()
 WHERE id = $1 AND status = 'pending';
`
	tag, err := execSQL(ctx, r.pool, tx, q, paymentID)
	if err != nil {
		return fmt.Errorf("mark payment expired: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*model.Payment, error) {
	const q = `
SELECT ` + paymentCols + `
  FROM payments
 WHERE status = 'pending' AND created_at < $1
 ORDER BY created_at
 LIMIT $2;
`
	rows, err := r.pool.Query(ctx, q, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentRepo) SaveSale(ctx context.Context, tx repository.Tx, s *model.Sale) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	const q = `
INSERT INTO sales (id, payment_id, bot_id, plan_id, payer_telegram_id, amount_cents, access_until, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (payment_id) DO NOTHING;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.PaymentID, s.BotID, s.PlanID, s.PayerTelegramID, s.AmountCents, s.AccessUntil, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("save sale: %w", err)
	}
	return nil
}

func (r *paymentRepo) ListRecentSales(ctx context.Context, ownerID string, limit int) ([]*model.Sale, error) {
	const q = `
SELECT s.id, s.payment_id, s.bot_id, s.plan_id, s.payer_telegram_id, s.amount_cents, s.access_until, s.created_at
  FROM sales s
  JOIN bots b ON b.id = s.bot_id
 WHERE b.owner_id = $1
 ORDER BY s.created_at DESC
 LIMIT $2;
`
	rows, err := r.pool.Query(ctx, q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	defer rows.Close()

	var out []*model.Sale
	for rows.Next() {
		var s model.Sale
		if err := rows.Scan(&s.ID, &s.PaymentID, &s.BotID, &s.PlanID, &s.PayerTelegramID, &s.AmountCents, &s.AccessUntil, &s.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *paymentRepo) PaidTotalCents(ctx context.Context, ownerID string) (int64, error) {
	const q = `
SELECT COALESCE(SUM(p.amount_cents), 0)
  FROM payments p
  JOIN bots b ON b.id = p.bot_id
 WHERE b.owner_id = $1 AND p.status = 'paid';
`
	var total int64
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("paid total: %w", err)
	}
	return total, nil
}

func (r *paymentRepo) CountSales(ctx context.Context, ownerID string) (int, error) {
	const q = `
SELECT COUNT(*)
  FROM sales s
  JOIN bots b ON b.id = s.bot_id
 WHERE b.owner_id = $1;
`
	var n int
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}
