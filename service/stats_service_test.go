package service

import (
	"context"
	"errors"
	"testing"

	"hushhush/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_PlatformStats(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	svc := NewStatsService(d.factory)

	setupReadOnlyTransactionMocks(d.uow)
	d.vaults.On("Totals", ctx).Return(&models.VaultTotals{
		CountByStatus: map[models.VaultStatus]int{
			models.VaultStatusLive:     3,
			models.VaultStatusFunded:   2,
			models.VaultStatusUnlocked: 1,
		},
		TotalPledged: 271500,
		TotalGoal:    950000,
	}, nil)
	d.users.On("Totals", ctx).Return(&models.UserTotals{
		CountByType: map[models.UserType]int{
			models.UserTypeWhisperer: 3,
			models.UserTypeListener:  2,
			models.UserTypeBoth:      1,
		},
		VerifiedUsers: 1,
	}, nil)

	stats, err := svc.PlatformStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 6, stats.Vaults.TotalVaults)
	assert.Equal(t, 3, stats.Vaults.LiveVaults)
	assert.Equal(t, 3, stats.Vaults.FundedVaults)
	assert.Equal(t, 0, stats.Vaults.ByStatus[models.VaultStatusDraft])
	assert.Len(t, stats.Vaults.ByStatus, len(models.AllVaultStatuses))
	assert.Equal(t, 271500.0, stats.Vaults.TotalPledged)
	assert.Equal(t, 244350.0, stats.Vaults.TotalEarned)

	assert.Equal(t, 6, stats.Users.TotalUsers)
	assert.Equal(t, 4, stats.Users.TotalWhisperers)
	assert.Equal(t, 3, stats.Users.TotalListeners)
	assert.Equal(t, 1, stats.Users.VerifiedUsers)
	d.assertAllMockExpectations(t)
}

func TestStatsService_EmptyPlatform(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	svc := NewStatsService(d.factory)

	setupReadOnlyTransactionMocks(d.uow)
	d.vaults.On("Totals", ctx).Return(&models.VaultTotals{CountByStatus: map[models.VaultStatus]int{}}, nil)

	stats, err := svc.VaultStats(ctx)

	require.NoError(t, err)
	assert.Zero(t, stats.TotalVaults)
	assert.Zero(t, stats.TotalEarned)
}

func TestStatsService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps()
	svc := NewStatsService(d.factory)

	setupReadOnlyTransactionMocks(d.uow)
	d.users.On("Totals", ctx).Return(nil, errors.New("timeout"))

	_, err := svc.UserStats(ctx)

	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}
