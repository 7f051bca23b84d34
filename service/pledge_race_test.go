package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hushhush/events"
	"hushhush/models"
	"hushhush/repository/inmemory"
	"hushhush/repository/testutil"
	"hushhush/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pledgeFixture struct {
	factory service.UnitOfWorkFactory
	pledges service.PledgeService
	vaults  service.VaultService
	vault   *models.Vault
	backers []*models.User
}

func newPledgeFixture(t *testing.T, bus *events.Bus, goal float64, backers int) *pledgeFixture {
	t.Helper()
	ctx := context.Background()
	factory := inmemory.NewUnitOfWorkFactory(inmemory.NewStore(), bus)

	f := &pledgeFixture{
		factory: factory,
		pledges: service.NewPledgeService(factory, nil),
		vaults:  service.NewVaultService(factory),
	}

	owner := testutil.CreateTestUser("owner", models.UserTypeWhisperer)
	f.vault = testutil.CreateTestVault(owner.ID, goal)
	for i := 0; i < backers; i++ {
		f.backers = append(f.backers, testutil.CreateTestUser("backer", models.UserTypeListener))
	}

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserRepository().Create(ctx, owner))
	for _, b := range f.backers {
		require.NoError(t, uow.UserRepository().Create(ctx, b))
	}
	require.NoError(t, uow.VaultRepository().Create(ctx, f.vault))
	require.NoError(t, uow.Commit())
	return f
}

func TestPledgeService_ConcurrentPledges(t *testing.T) {
	ctx := context.Background()
	f := newPledgeFixture(t, nil, 50000, 2)

	var wg sync.WaitGroup
	errs := make([]error, len(f.backers))
	for i, b := range f.backers {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.pledges.CreatePledge(ctx, userID, service.CreatePledgeRequest{VaultID: f.vault.ID, Amount: 100})
		}(i, b.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	vault, err := f.vaults.GetVault(ctx, f.vault.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, vault.PledgedAmount)
	assert.Equal(t, 2, vault.BackersCount)
	assert.Equal(t, models.VaultStatusLive, vault.Status)
}

func TestPledgeService_FundsOnceGoalReached(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	funded := make(chan events.VaultFundedEvent, 2)
	bus.Subscribe(events.EventTypeVaultFunded, func(_ context.Context, e events.Event) {
		funded <- e.(events.VaultFundedEvent)
	})
	f := newPledgeFixture(t, bus, 50000, 2)

	_, err := f.pledges.CreatePledge(ctx, f.backers[0].ID, service.CreatePledgeRequest{VaultID: f.vault.ID, Amount: 30000})
	require.NoError(t, err)

	vault, err := f.vaults.GetVault(ctx, f.vault.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStatusLive, vault.Status)

	_, err = f.pledges.CreatePledge(ctx, f.backers[1].ID, service.CreatePledgeRequest{VaultID: f.vault.ID, Amount: 25000})
	require.NoError(t, err)

	vault, err = f.vaults.GetVault(ctx, f.vault.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VaultStatusFunded, vault.Status)
	assert.Equal(t, 55000.0, vault.PledgedAmount)

	select {
	case e := <-funded:
		assert.Equal(t, f.vault.ID, e.VaultID)
		assert.Equal(t, 55000.0, e.PledgedAmount)
		assert.Equal(t, 2, e.BackersCount)
	case <-time.After(time.Second):
		t.Fatal("vault funded event not delivered")
	}

	// pledges keep landing after funding but no second funded event fires
	_, err = f.pledges.CreatePledge(ctx, f.backers[0].ID, service.CreatePledgeRequest{VaultID: f.vault.ID, Amount: 10})
	require.NoError(t, err)
	select {
	case <-funded:
		t.Fatal("vault funded twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPledgeService_FailedPledgeLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newPledgeFixture(t, nil, 1000, 1)

	_, err := f.pledges.CreatePledge(ctx, f.backers[0].ID, service.CreatePledgeRequest{VaultID: "missing", Amount: 10})
	require.Error(t, err)
	assert.True(t, service.IsKind(err, service.KindNotFound))

	listed, err := f.pledges.ListMyPledges(ctx, f.backers[0].ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
