package usecase

import (
	"context"
	"time"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// DashboardStats is the owner dashboard summary.
type DashboardStats struct {
	SalesCount    int
	RevenueCents  int64
	ActiveMembers int
	PlanCount     int
	RecentSales   []*model.Sale
}

type StatsUseCase interface {
	Dashboard(ctx context.Context, ownerID string) (DashboardStats, error)
}

type statsUC struct {
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	groups   repository.GroupRepository
}

func NewStatsUseCase(payments repository.PaymentRepository, plans repository.PlanRepository, groups repository.GroupRepository) *statsUC {
	return &statsUC{payments: payments, plans: plans, groups: groups}
}

const recentSalesLimit = 10

func (u *statsUC) Dashboard(ctx context.Context, ownerID string) (DashboardStats, error) {
	sales, err := u.payments.CountSales(ctx, ownerID)
	if err != nil {
		return DashboardStats{}, err
	}
	revenue, err := u.payments.PaidTotalCents(ctx, ownerID)
	if err != nil {
		return DashboardStats{}, err
	}
	members, err := u.groups.CountActiveMembers(ctx, ownerID, time.Now())
	if err != nil {
		return DashboardStats{}, err
	}
	planCount, err := u.plans.CountByOwner(ctx, ownerID)
	if err != nil {
		return DashboardStats{}, err
	}
	recent, err := u.payments.ListRecentSales(ctx, ownerID, recentSalesLimit)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		SalesCount:    sales,
		RevenueCents:  revenue,
		ActiveMembers: members,
		PlanCount:     planCount,
		RecentSales:   recent,
	}, nil
}
