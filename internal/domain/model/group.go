package model

import "time"

// Group is a Telegram chat a tenant bot administers.
type Group struct {
	ID             string
	BotID          string
	TelegramChatID int64
	Title          string
	IsVIP          bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MemberStatus string

const (
	MemberStatusActive       MemberStatus = "active"
	MemberStatusExpiringSoon MemberStatus = "expiring_soon"
	MemberStatusExpired      MemberStatus = "expired"
)

// ExpiringSoonWindow is how close to expiry a member counts as expiring_soon.
const ExpiringSoonWindow = 3 * 24 * time.Hour

// GroupMember is one person in a group with expiry-derived access status.
type GroupMember struct {
	ID             string
	GroupID        string
	TelegramUserID int64
	Name           string
	Username       string
	AvatarURL      string
	IsAdmin        bool
	// PaidUntil is nil for lifetime access.
	PaidUntil *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status derives the member's access state from PaidUntil at the given time.
func (m *GroupMember) Status(now time.Time) MemberStatus {
	if m.PaidUntil == nil {
		return MemberStatusActive
	}
	switch {
	case now.After(*m.PaidUntil):
		return MemberStatusExpired
	case m.PaidUntil.Sub(now) <= ExpiringSoonWindow:
		return MemberStatusExpiringSoon
	default:
		return MemberStatusActive
	}
}
