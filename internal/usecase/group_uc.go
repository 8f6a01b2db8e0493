package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/logging"
	"blackinpay/internal/infra/worker"
)

// Compile-time check
var _ GroupUseCase = (*groupUC)(nil)

// MemberView is a member with the status derived at read time.
type MemberView struct {
	Member *model.GroupMember
	Status model.MemberStatus
}

type GroupUseCase interface {
	ListGroups(ctx context.Context, ownerID, botID string) ([]*model.Group, error)
	ListMembers(ctx context.Context, ownerID, groupID string) ([]MemberView, error)
	// SyncGroups refreshes titles and admin member rows from Telegram.
	SyncGroups(ctx context.Context, ownerID, botID string) error
	// NotifyExpiring sends a reminder to members whose access runs out within
	// the window; sends go through the worker pool, best-effort.
	NotifyExpiring(ctx context.Context, window time.Duration, limit int) (int, error)
}

type groupUC struct {
	groups repository.GroupRepository
	bots   repository.BotRepository
	tg     adapter.TelegramAPI
	pool   *worker.Pool
	log    zerolog.Logger
}

func NewGroupUseCase(groups repository.GroupRepository, bots repository.BotRepository, tg adapter.TelegramAPI, pool *worker.Pool, log zerolog.Logger) *groupUC {
	return &groupUC{groups: groups, bots: bots, tg: tg, pool: pool, log: log}
}

func (u *groupUC) ownedBot(ctx context.Context, ownerID, botID string) (*model.Bot, error) {
	bot, err := u.bots.FindByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return bot, nil
}

func (u *groupUC) ListGroups(ctx context.Context, ownerID, botID string) ([]*model.Group, error) {
	if _, err := u.ownedBot(ctx, ownerID, botID); err != nil {
		return nil, err
	}
	return u.groups.ListGroupsByBot(ctx, botID)
}

func (u *groupUC) ListMembers(ctx context.Context, ownerID, groupID string) ([]MemberView, error) {
	group, err := u.groups.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := u.ownedBot(ctx, ownerID, group.BotID); err != nil {
		return nil, err
	}

	members, err := u.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]MemberView, 0, len(members))
	for _, m := range members {
		out = append(out, MemberView{Member: m, Status: m.Status(now)})
	}
	return out, nil
}

func (u *groupUC) SyncGroups(ctx context.Context, ownerID, botID string) error {
	defer logging.TraceDuration(&u.log, "GroupUC.SyncGroups")()
	bot, err := u.ownedBot(ctx, ownerID, botID)
	if err != nil {
		return err
	}
	groups, err := u.groups.ListGroupsByBot(ctx, botID)
	if err != nil {
		return err
	}

	for _, g := range groups {
		chat, err := u.tg.GetChat(ctx, bot.Token, g.TelegramChatID)
		if err != nil {
			u.log.Warn().Str("group_id", g.ID).Err(err).Msg("getChat failed during sync")
			continue
		}
		if chat.Title != "" && chat.Title != g.Title {
			g.Title = chat.Title
			if err := u.groups.SaveGroup(ctx, g); err != nil {
				return err
			}
		}

		admins, err := u.tg.GetChatAdministrators(ctx, bot.Token, g.TelegramChatID)
		if err != nil {
			u.log.Warn().Str("group_id", g.ID).Err(err).Msg("getChatAdministrators failed during sync")
			continue
		}
		for _, a := range admins {
			avatar, err := u.tg.GetUserProfilePhotoURL(ctx, bot.Token, a.TelegramID)
			if err != nil {
				avatar = ""
			}
			member := &model.GroupMember{
				ID:             uuid.NewString(),
				GroupID:        g.ID,
				TelegramUserID: a.TelegramID,
				Name:           a.Name,
				Username:       a.Username,
				AvatarURL:      avatar,
				IsAdmin:        true,
				CreatedAt:      time.Now(),
				UpdatedAt:      time.Now(),
			}
			if err := u.groups.UpsertMember(ctx, repository.NoTx, member); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *groupUC) NotifyExpiring(ctx context.Context, window time.Duration, limit int) (int, error) {
	defer logging.TraceDuration(&u.log, "GroupUC.NotifyExpiring")()
	now := time.Now()
	members, err := u.groups.ListMembersExpiringBefore(ctx, now, now.Add(window), limit)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, m := range members {
		group, err := u.groups.FindGroupByID(ctx, m.GroupID)
		if err != nil {
			continue
		}
		bot, err := u.bots.FindByID(ctx, group.BotID)
		if err != nil {
			continue
		}
		token := bot.Token
		userID := m.TelegramUserID
		days := int(time.Until(*m.PaidUntil).Hours()/24) + 1
		text := fmt.Sprintf("⏰ Seu acesso ao grupo %s expira em %d dia(s). Renove para não perder o acesso!", group.Title, days)
		if err := u.pool.Submit(func(ctx context.Context) error {
			return u.tg.SendMessage(ctx, token, userID, text, nil)
		}); err == nil {
			queued++
		}
	}
	return queued, nil
}
