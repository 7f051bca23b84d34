package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"hushhush/events"
	"hushhush/models"
	"hushhush/repository/testutil"
	"hushhush/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 4)
	bus.Subscribe(events.EventTypeUserRegistered, func(ctx context.Context, e events.Event) {
		received <- e
	})
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("commit persists and flushes events", func(t *testing.T) {
		user := testutil.CreateTestUser("committed", models.UserTypeListener)

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		uow.EventBus().Publish(events.UserRegisteredEvent{UserID: user.ID})
		require.NoError(t, uow.Commit())
		require.NoError(t, uow.Rollback())

		found, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, found)

		select {
		case e := <-received:
			assert.Equal(t, user.ID, e.(events.UserRegisteredEvent).UserID)
		case <-time.After(2 * time.Second):
			t.Fatal("event not delivered after commit")
		}
	})

	t.Run("rollback discards writes and events", func(t *testing.T) {
		user := testutil.CreateTestUser("rolledback", models.UserTypeListener)

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		uow.EventBus().Publish(events.UserRegisteredEvent{UserID: user.ID})
		require.NoError(t, uow.Rollback())

		found, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		select {
		case <-received:
			t.Fatal("event delivered after rollback")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("repositories require Begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.VaultRepository() })
		assert.Error(t, uow.Commit())
	})
}

func TestPledgeService_ConcurrentPledgesOnPostgres(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	owner := createVaultOwner(t, users)
	backers := []*models.User{
		testutil.CreateTestUser("backer-a", models.UserTypeListener),
		testutil.CreateTestUser("backer-b", models.UserTypeListener),
	}
	for _, b := range backers {
		require.NoError(t, users.Create(ctx, b))
	}
	vault := testutil.CreateTestVault(owner.ID, 50000)
	require.NoError(t, NewVaultRepository(testDB.DB).Create(ctx, vault))

	pledges := service.NewPledgeService(NewUnitOfWorkFactory(testDB.DB, events.NewBus()), nil)

	var wg sync.WaitGroup
	errs := make([]error, len(backers))
	for i, b := range backers {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = pledges.CreatePledge(ctx, userID, service.CreatePledgeRequest{VaultID: vault.ID, Amount: 100})
		}(i, b.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	found, err := NewVaultRepository(testDB.DB).GetByID(ctx, vault.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, found.PledgedAmount)
	assert.Equal(t, 2, found.BackersCount)
}
