package usecase

import (
	"context"

	"github.com/google/uuid"

	"blackinpay/internal/domain"
	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanInput carries the editable plan fields.
type PlanInput struct {
	Name        string
	Description string
	PriceCents  int64
	DaysAccess  int
	IsActive    bool
}

type PlanUseCase interface {
	Create(ctx context.Context, ownerID, botID string, in PlanInput) (*model.Plan, error)
	Update(ctx context.Context, ownerID, planID string, in PlanInput) (*model.Plan, error)
	Delete(ctx context.Context, ownerID, planID string) error
	ListByBot(ctx context.Context, ownerID, botID string) ([]*model.Plan, error)
}

type planUC struct {
	plans repository.PlanRepository
	bots  repository.BotRepository
}

func NewPlanUseCase(plans repository.PlanRepository, bots repository.BotRepository) *planUC {
	return &planUC{plans: plans, bots: bots}
}

func (u *planUC) ownedBot(ctx context.Context, ownerID, botID string) (*model.Bot, error) {
	bot, err := u.bots.FindByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return bot, nil
}

func (u *planUC) Create(ctx context.Context, ownerID, botID string, in PlanInput) (*model.Plan, error) {
	if _, err := u.ownedBot(ctx, ownerID, botID); err != nil {
		return nil, err
	}
	plan, err := model.NewPlan(uuid.NewString(), botID, in.Name, in.PriceCents, in.DaysAccess)
	if err != nil {
		return nil, err
	}
	plan.Description = in.Description
	plan.IsActive = in.IsActive
	if err := u.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) ownedPlan(ctx context.Context, ownerID, planID string) (*model.Plan, error) {
	plan, err := u.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if _, err := u.ownedBot(ctx, ownerID, plan.BotID); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) Update(ctx context.Context, ownerID, planID string, in PlanInput) (*model.Plan, error) {
	plan, err := u.ownedPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.PriceCents <= 0 || in.DaysAccess < 0 {
		return nil, domain.ErrInvalidArgument
	}
	plan.Name = in.Name
	plan.Description = in.Description
	plan.PriceCents = in.PriceCents
	plan.DaysAccess = in.DaysAccess
	plan.IsActive = in.IsActive
	if err := u.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *planUC) Delete(ctx context.Context, ownerID, planID string) error {
	if _, err := u.ownedPlan(ctx, ownerID, planID); err != nil {
		return err
	}
	return u.plans.Delete(ctx, planID)
}

func (u *planUC) ListByBot(ctx context.Context, ownerID, botID string) ([]*model.Plan, error) {
	if _, err := u.ownedBot(ctx, ownerID, botID); err != nil {
		return nil, err
	}
	return u.plans.ListByBot(ctx, botID)
}
