package service

import (
	"context"
	"fmt"

	"hushhush/models"
)

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new statistics service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

// VaultStats aggregates every vault. Recomputed on each call.
func (s *statsService) VaultStats(ctx context.Context) (*models.VaultStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return vaultStats(ctx, uow)
}

// UserStats aggregates every user. Recomputed on each call.
func (s *statsService) UserStats(ctx context.Context) (*models.UserStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return userStats(ctx, uow)
}

// PlatformStats returns vault and user aggregates from one snapshot
func (s *statsService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vaults, err := vaultStats(ctx, uow)
	if err != nil {
		return nil, err
	}
	users, err := userStats(ctx, uow)
	if err != nil {
		return nil, err
	}
	return &models.PlatformStats{Vaults: vaults, Users: users}, nil
}

func vaultStats(ctx context.Context, uow UnitOfWork) (*models.VaultStats, error) {
	totals, err := uow.VaultRepository().Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vaults: %w", err)
	}

	stats := &models.VaultStats{
		ByStatus:     make(map[models.VaultStatus]int, len(models.AllVaultStatuses)),
		TotalPledged: totals.TotalPledged,
		TotalGoal:    totals.TotalGoal,
		TotalEarned:  models.WhispererEarnings(totals.TotalPledged),
	}
	for _, status := range models.AllVaultStatuses {
		count := totals.CountByStatus[status]
		stats.ByStatus[status] = count
		stats.TotalVaults += count
	}
	stats.LiveVaults = stats.ByStatus[models.VaultStatusLive]
	stats.FundedVaults = stats.ByStatus[models.VaultStatusFunded] + stats.ByStatus[models.VaultStatusUnlocked]
	return stats, nil
}

func userStats(ctx context.Context, uow UnitOfWork) (*models.UserStats, error) {
	totals, err := uow.UserRepository().Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate users: %w", err)
	}

	whisperers := totals.CountByType[models.UserTypeWhisperer]
	listeners := totals.CountByType[models.UserTypeListener]
	both := totals.CountByType[models.UserTypeBoth]

	return &models.UserStats{
		TotalUsers:      whisperers + listeners + both,
		TotalWhisperers: whisperers + both,
		TotalListeners:  listeners + both,
		VerifiedUsers:   totals.VerifiedUsers,
	}, nil
}
