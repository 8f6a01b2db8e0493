package repository

import (
	"context"
	"time"

	"blackinpay/internal/domain/model"
)

// GroupRepository manages Telegram chats and their members.
type GroupRepository interface {
	SaveGroup(ctx context.Context, group *model.Group) error
	FindGroupByID(ctx context.Context, id string) (*model.Group, error)
	FindGroupByChatID(ctx context.Context, botID string, chatID int64) (*model.Group, error)
	ListGroupsByBot(ctx context.Context, botID string) ([]*model.Group, error)

	UpsertMember(ctx context.Context, tx Tx, member *model.GroupMember) error
	ListMembers(ctx context.Context, groupID string) ([]*model.GroupMember, error)
	// ExtendMemberAccess pushes a member's paid-until forward; nil until means lifetime.
	ExtendMemberAccess(ctx context.Context, tx Tx, groupID string, telegramUserID int64, until *time.Time) error
	CountActiveMembers(ctx context.Context, ownerID string, now time.Time) (int, error)
	// ListMembersExpiringBefore returns members whose paid access runs out in
	// (now, cutoff]; lifetime and already-expired members are excluded.
	ListMembersExpiringBefore(ctx context.Context, now, cutoff time.Time, limit int) ([]*model.GroupMember, error)
}
