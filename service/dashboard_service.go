package service

import (
	"context"
	"fmt"
	"time"

	"hushhush/models"

	"github.com/shopspring/decimal"
)

type dashboardService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(uowFactory UnitOfWorkFactory) DashboardService {
	return &dashboardService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// WhispererDashboard summarizes the caller's vaults. Earnings count unlocked vaults only.
func (s *dashboardService) WhispererDashboard(ctx context.Context, userID string) (*models.WhispererDashboard, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.UserType.CanWhisper() {
		return nil, forbidden(msgAccessDenied)
	}

	vaults, err := uow.VaultRepository().ListByWhisperer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}

	now := s.now()
	dashboard := &models.WhispererDashboard{
		Vaults: make([]*models.VaultView, 0, len(vaults)),
		Stats: models.WhispererDashboardSummary{
			TotalVaults:      len(vaults),
			CredibilityScore: user.CredibilityScore,
		},
	}

	earned := decimal.Zero
	for _, vault := range vaults {
		dashboard.Vaults = append(dashboard.Vaults, models.NewVaultView(vault, user, now))
		switch vault.Status {
		case models.VaultStatusLive:
			dashboard.Stats.ActiveVaults++
		case models.VaultStatusUnlocked:
			earned = earned.Add(decimal.NewFromFloat(vault.PledgedAmount).Mul(models.WhispererShare))
		}
	}
	dashboard.Stats.TotalEarned = earned.InexactFloat64()

	return dashboard, nil
}

// ListenerDashboard summarizes the caller's pledges
func (s *dashboardService) ListenerDashboard(ctx context.Context, userID string) (*models.ListenerDashboard, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.UserType.CanListen() {
		return nil, forbidden(msgAccessDenied)
	}

	pledges, err := listPledgeViews(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	credits := decimal.Zero
	dashboard := &models.ListenerDashboard{
		Pledges: pledges,
		Stats: models.ListenerDashboardSummary{
			TotalPledges: len(pledges),
		},
	}
	for _, pledge := range pledges {
		total = total.Add(decimal.NewFromFloat(pledge.Amount))
		credits = credits.Add(decimal.NewFromFloat(pledge.ReferralCreditEarned))
		if pledge.Status == models.PledgeStatusAuthorized {
			dashboard.Stats.ActivePledges++
		}
	}
	dashboard.Stats.TotalPledged = total.InexactFloat64()
	dashboard.Stats.ReferralCredits = credits.InexactFloat64()

	return dashboard, nil
}
