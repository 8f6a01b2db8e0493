package model

import (
	"fmt"
	"time"

	"blackinpay/internal/domain"
)

// LifetimeAccess is the DaysAccess sentinel for plans that never expire.
const LifetimeAccess = 0

// Plan represents a purchasable subscription tier owned by exactly one bot.
// Prices are held in BRL cents to avoid float errors.
type Plan struct {
	ID          string
	BotID       string
	Name        string
	Description string
	PriceCents  int64
	// DaysAccess is how long a paid member keeps access; LifetimeAccess means forever.
	DaysAccess int
	IsActive   bool
	SalesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// PriceLabel renders the price the way the paywall keyboard shows it, e.g. "R$ 19.90".
func (p *Plan) PriceLabel() string {
	return fmt.Sprintf("R$ %d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// NewPlan validates and constructs a plan.
func NewPlan(id, botID, name string, priceCents int64, daysAccess int) (*Plan, error) {
	if id == "" || botID == "" || name == "" || priceCents <= 0 || daysAccess < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Plan{
		ID:         id,
		BotID:      botID,
		Name:       name,
		PriceCents: priceCents,
		DaysAccess: daysAccess,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
