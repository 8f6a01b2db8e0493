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
var _ repository.GroupRepository = (*groupRepo)(nil)

type groupRepo struct {
	pool *pgxpool.Pool
}

func NewGroupRepo(pool *pgxpool.Pool) repository.GroupRepository {
	return &groupRepo{pool: pool}
}

func (r *groupRepo) SaveGroup(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	const q = `
INSERT INTO groups (id, bot_id, telegram_chat_id, title, is_vip, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (bot_id, telegram_chat_id) DO UPDATE SET
  title      = EXCLUDED.title,
  is_vip     = EXCLUDED.is_vip,
  updated_at = now();
`
	_, err := r.pool.Exec(ctx, q, g.ID, g.BotID, g.TelegramChatID, g.Title, g.IsVIP, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("save group: %w", err)
	}
	return nil
}

const groupCols = `id, bot_id, telegram_chat_id, title, is_vip, created_at, updated_at`

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.BotID, &g.TelegramChatID, &g.Title, &g.IsVIP, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &g, nil
}

func (r *groupRepo) FindGroupByID(ctx context.Context, id string) (*model.Group, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+groupCols+` FROM groups WHERE id = $1;`, id)
	return scanGroup(row)
}

func (r *groupRepo) FindGroupByChatID(ctx context.Context, botID string, chatID int64) (*model.Group, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+groupCols+` FROM groups WHERE bot_id = $1 AND telegram_chat_id = $2;`, botID, chatID)
	return scanGroup(row)
}

func (r *groupRepo) ListGroupsByBot(ctx context.Context, botID string) ([]*model.Group, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+groupCols+` FROM groups WHERE bot_id = $1 ORDER BY created_at;`, botID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *groupRepo) UpsertMember(ctx context.Context, tx repository.Tx, m *model.GroupMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	const q = `
INSERT INTO group_members (id, group_id, telegram_user_id, name, username, avatar_url, is_admin, paid_until, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (group_id, telegram_user_id) DO UPDATE SET
  name       = EXCLUDED.name,
  username   = EXCLUDED.username,
  avatar_url = EXCLUDED.avatar_url,
  is_admin   = EXCLUDED.is_admin,
  updated_at = now();
`
	_, err := execSQL(ctx, r.pool, tx, q,
		m.ID, m.GroupID, m.TelegramUserID, m.Name, m.Username, m.AvatarURL, m.IsAdmin, m.PaidUntil, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func (r *groupRepo) ListMembers(ctx context.Context, groupID string) ([]*model.GroupMember, error) {
	const q = `
SELECT id, group_id, telegram_user_id, name, username, avatar_url, is_admin, paid_until, created_at, updated_at
  FROM group_members
 WHERE group_id = $1
 ORDER BY created_at;
`
	rows, err := r.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []*model.GroupMember
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.TelegramUserID, &m.Name, &m.Username, &m.AvatarURL, &m.IsAdmin, &m.PaidUntil, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ExtendMemberAccess inserts the member when absent; NULL until means lifetime
// and always wins over a dated expiry.
func (r *groupRepo) ExtendMemberAccess(ctx context.Context, tx repository.Tx, groupID string, telegramUserID int64, until *time.Time) error {
	const q = `
INSERT INTO group_members (id, group_id, telegram_user_id, paid_until, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (group_id, telegram_user_id) DO UPDATE SET
  paid_until = CASE
                 WHEN EXCLUDED.paid_until IS NULL THEN NULL
                 WHEN group_members.paid_until IS NULL THEN group_members.paid_until
                 ELSE GREATEST(group_members.paid_until, EXCLUDED.paid_until)
               END,
  updated_at = now();
`
	_, err := execSQL(ctx, r.pool, tx, q, uuid.NewString(), groupID, telegramUserID, until)
	if err != nil {
		return fmt.Errorf("extend member access: %w", err)
	}
	return nil
}

func (r *groupRepo) ListMembersExpiringBefore(ctx context.Context, now, cutoff time.Time, limit int) ([]*model.GroupMember, error) {
	const q = `
SELECT id, group_id, telegram_user_id, name, username, avatar_url, is_admin, paid_until, created_at, updated_at
  FROM group_members
 WHERE paid_until IS NOT NULL
   AND paid_until > $1
   AND paid_until <= $2
 ORDER BY paid_until
 LIMIT $3;
`
	rows, err := r.pool.Query(ctx, q, now, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring members: %w", err)
	}
	defer rows.Close()

	var out []*model.GroupMember
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.TelegramUserID, &m.Name, &m.Username, &m.AvatarURL, &m.IsAdmin, &m.PaidUntil, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *groupRepo) CountActiveMembers(ctx context.Context, ownerID string, now time.Time) (int, error) {
	const q = `
SELECT COUNT(*)
  FROM group_members m
  JOIN groups g ON g.id = m.group_id
  JOIN bots b  ON b.id = g.bot_id
 WHERE b.owner_id = $1
   AND (m.paid_until IS NULL OR m.paid_until > $2);
`
	var n int
	if err := r.pool.QueryRow(ctx, q, ownerID, now).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active members: %w", err)
	}
	return n, nil
}
