package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/adapter"
	"blackinpay/internal/infra/worker"
)

type groupFixture struct {
	uc     *groupUC
	groups *memGroupRepo
	bots   *memBotRepo
	tg     *fakeTelegram
	pool   *worker.Pool
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()
	groups := newMemGroupRepo()
	bots := newMemBotRepo()
	tg := newFakeTelegram()
	pool := worker.NewPool(2, zerolog.Nop())
	uc := NewGroupUseCase(groups, bots, tg, pool, zerolog.Nop())
	return &groupFixture{uc: uc, groups: groups, bots: bots, tg: tg, pool: pool}
}

func (f *groupFixture) seedGroup(t *testing.T, id string, chatID int64, title string) *model.Group {
	t.Helper()
	g := &model.Group{ID: id, BotID: "bot-1", TelegramChatID: chatID, Title: title, IsVIP: true}
	if err := f.groups.SaveGroup(context.Background(), g); err != nil {
		t.Fatalf("SaveGroup returned error: %v", err)
	}
	return g
}

func TestListMembersDerivesStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newGroupFixture(t)
	seedBot(t, f.bots, "bot-1")
	f.seedGroup(t, "group-1", -100123, "VIP")

	now := time.Now()
	farAway := now.Add(30 * 24 * time.Hour)
	soon := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)
	for i, until := range []*time.Time{nil, &farAway, &soon, &past} {
		m := &model.GroupMember{
			ID:             string(rune('a' + i)),
			GroupID:        "group-1",
			TelegramUserID: int64(100 + i),
			PaidUntil:      until,
		}
		if err := f.groups.UpsertMember(ctx, nil, m); err != nil {
			t.Fatalf("UpsertMember returned error: %v", err)
		}
	}

	views, err := f.uc.ListMembers(ctx, "owner-1", "group-1")
	if err != nil {
		t.Fatalf("ListMembers returned error: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("views = %d, want 4", len(views))
	}
	byUser := map[int64]model.MemberStatus{}
	for _, v := range views {
		byUser[v.Member.TelegramUserID] = v.Status
	}
	want := map[int64]model.MemberStatus{
		100: model.MemberStatusActive,       // lifetime
		101: model.MemberStatusActive,       // 30 days out
		102: model.MemberStatusExpiringSoon, // tomorrow
		103: model.MemberStatusExpired,
	}
	for user, status := range want {
		if byUser[user] != status {
			t.Fatalf("user %d status = %s, want %s", user, byUser[user], status)
		}
	}
}

func TestSyncGroupsRefreshesTitleAndAdmins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newGroupFixture(t)
	seedBot(t, f.bots, "bot-1")
	f.seedGroup(t, "group-1", -100123, "Old Title")

	f.tg.chatTitle = "New Title"
	f.tg.admins = []adapter.ChatMemberInfo{
		{TelegramID: 500, Name: "Maria", Username: "maria", Status: "creator"},
	}

	if err := f.uc.SyncGroups(ctx, "owner-1", "bot-1"); err != nil {
		t.Fatalf("SyncGroups returned error: %v", err)
	}

	g, _ := f.groups.FindGroupByID(ctx, "group-1")
	if g.Title != "New Title" {
		t.Fatalf("title = %q, want refreshed title", g.Title)
	}

	members, _ := f.groups.ListMembers(ctx, "group-1")
	if len(members) != 1 {
		t.Fatalf("members = %d, want 1 admin", len(members))
	}
	if !members[0].IsAdmin || members[0].Name != "Maria" {
		t.Fatalf("admin member = %+v", members[0])
	}
}

func TestNotifyExpiringQueuesReminders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newGroupFixture(t)
	seedBot(t, f.bots, "bot-1")
	f.seedGroup(t, "group-1", -100123, "VIP")

	now := time.Now()
	expiring := now.Add(24 * time.Hour)
	lifetime := (*time.Time)(nil)
	expired := now.Add(-time.Hour)
	for i, until := range []*time.Time{&expiring, lifetime, &expired} {
		m := &model.GroupMember{GroupID: "group-1", TelegramUserID: int64(200 + i), PaidUntil: until}
		if err := f.groups.UpsertMember(ctx, nil, m); err != nil {
			t.Fatalf("UpsertMember returned error: %v", err)
		}
	}

	queued, err := f.uc.NotifyExpiring(ctx, model.ExpiringSoonWindow, 100)
	if err != nil {
		t.Fatalf("NotifyExpiring returned error: %v", err)
	}
	if queued != 1 {
		t.Fatalf("queued = %d, want 1 (lifetime and expired members excluded)", queued)
	}
}
