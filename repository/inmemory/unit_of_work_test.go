package inmemory

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

// within runs fn in a committed unit of work
func within(t *testing.T, factory service.UnitOfWorkFactory, fn func(uow service.UnitOfWork)) {
	t.Helper()
	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	fn(uow)
	require.NoError(t, uow.Commit())
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("commit keeps writes and flushes events", func(t *testing.T) {
		bus := events.NewBus()
		received := make(chan events.Event, 1)
		bus.Subscribe(events.EventTypeUserRegistered, func(_ context.Context, e events.Event) {
			received <- e
		})
		factory := NewUnitOfWorkFactory(NewStore(), bus)
		user := testutil.CreateTestUser("alice", models.UserTypeListener)

		within(t, factory, func(uow service.UnitOfWork) {
			require.NoError(t, uow.UserRepository().Create(ctx, user))
			uow.EventBus().Publish(events.UserRegisteredEvent{UserID: user.ID})
		})

		within(t, factory, func(uow service.UnitOfWork) {
			found, err := uow.UserRepository().GetByEmail(ctx, user.Email)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, user.ID, found.ID)
		})

		select {
		case e := <-received:
			assert.Equal(t, user.ID, e.(events.UserRegisteredEvent).UserID)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered after commit")
		}
	})

	t.Run("rollback undoes every write", func(t *testing.T) {
		factory := NewUnitOfWorkFactory(NewStore(), nil)
		owner := testutil.CreateTestUser("owner", models.UserTypeWhisperer)
		backer := testutil.CreateTestUser("backer", models.UserTypeListener)
		vault := testutil.CreateTestVault(owner.ID, 1000)

		within(t, factory, func(uow service.UnitOfWork) {
			require.NoError(t, uow.UserRepository().Create(ctx, owner))
			require.NoError(t, uow.UserRepository().Create(ctx, backer))
			require.NoError(t, uow.VaultRepository().Create(ctx, vault))
		})

		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.PledgeRepository().Create(ctx, testutil.CreateTestPledge(vault.ID, backer.ID, 1000)))
		_, err := uow.VaultRepository().ApplyPledge(ctx, vault.ID, 1000)
		require.NoError(t, err)
		require.NoError(t, uow.UserRepository().AddPledged(ctx, backer.ID, 1000))
		require.NoError(t, uow.CommentRepository().Create(ctx, &models.Comment{ID: "c1", VaultID: vault.ID}))
		require.NoError(t, uow.UserRepository().Create(ctx, testutil.CreateTestUser("late", models.UserTypeListener)))
		require.NoError(t, uow.Rollback())

		within(t, factory, func(uow service.UnitOfWork) {
			found, err := uow.VaultRepository().GetByID(ctx, vault.ID)
			require.NoError(t, err)
			assert.Equal(t, models.VaultStatusLive, found.Status)
			assert.Zero(t, found.PledgedAmount)
			assert.Zero(t, found.BackersCount)

			pledged, err := uow.PledgeRepository().HasPledged(ctx, backer.ID, vault.ID)
			require.NoError(t, err)
			assert.False(t, pledged)

			comments, err := uow.CommentRepository().ListByVault(ctx, vault.ID, 10)
			require.NoError(t, err)
			assert.Empty(t, comments)

			found2, err := uow.UserRepository().GetByID(ctx, backer.ID)
			require.NoError(t, err)
			assert.Zero(t, found2.TotalPledged)

			totals, err := uow.UserRepository().Totals(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, totals.CountByType[models.UserTypeListener])
		})
	})

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		factory := NewUnitOfWorkFactory(NewStore(), nil)
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit())
		assert.NoError(t, uow.Rollback())
		assert.Error(t, uow.Commit())
	})

	t.Run("repositories require Begin", func(t *testing.T) {
		uow := NewUnitOfWorkFactory(NewStore(), nil).Create()
		assert.Panics(t, func() { uow.VaultRepository() })
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		uow := NewUnitOfWorkFactory(NewStore(), nil).Create()
		assert.Error(t, uow.Begin(cancelled))
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(NewStore(), nil)
	user := testutil.CreateTestUser("bob", models.UserTypeBoth)

	within(t, factory, func(uow service.UnitOfWork) {
		require.NoError(t, uow.UserRepository().Create(ctx, user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := testutil.CreateTestUser("bob2", models.UserTypeListener)
		dup.Email = user.Email
		within(t, factory, func(uow service.UnitOfWork) {
			err := uow.UserRepository().Create(ctx, dup)
			assert.ErrorIs(t, err, service.ErrEmailTaken)
		})
	})

	t.Run("duplicate referral code", func(t *testing.T) {
		dup := testutil.CreateTestUser("bob3", models.UserTypeListener)
		dup.ReferralCode = user.ReferralCode
		within(t, factory, func(uow service.UnitOfWork) {
			err := uow.UserRepository().Create(ctx, dup)
			assert.ErrorIs(t, err, service.ErrReferralCodeTaken)

			found, err := uow.UserRepository().GetByEmail(ctx, dup.Email)
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	})

	t.Run("stored records are copies", func(t *testing.T) {
		within(t, factory, func(uow service.UnitOfWork) {
			found, err := uow.UserRepository().GetByID(ctx, user.ID)
			require.NoError(t, err)
			found.Username = "mutated"

			again, err := uow.UserRepository().GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "bob", again.Username)
		})
	})

	t.Run("profile and reputation", func(t *testing.T) {
		bio := "hello"
		within(t, factory, func(uow service.UnitOfWork) {
			updated, err := uow.UserRepository().UpdateProfile(ctx, user.ID, models.ProfileUpdate{Bio: &bio})
			require.NoError(t, err)
			require.NotNil(t, updated.Bio)
			assert.Equal(t, "hello", *updated.Bio)
			assert.Equal(t, "bob", updated.Username)

			require.NoError(t, uow.UserRepository().UpdateReputation(ctx, user.ID, true, 88))
			assert.Error(t, uow.UserRepository().UpdateReputation(ctx, "ghost", true, 1))

			missing, err := uow.UserRepository().UpdateProfile(ctx, "ghost", models.ProfileUpdate{Bio: &bio})
			require.NoError(t, err)
			assert.Nil(t, missing)

			byCode, err := uow.UserRepository().GetByReferralCode(ctx, user.ReferralCode)
			require.NoError(t, err)
			assert.True(t, byCode.IsVerified)
			assert.Equal(t, 88, byCode.CredibilityScore)
		})
	})

	t.Run("money totals add exactly", func(t *testing.T) {
		within(t, factory, func(uow service.UnitOfWork) {
			require.NoError(t, uow.UserRepository().AddPledged(ctx, user.ID, 0.1))
			require.NoError(t, uow.UserRepository().AddPledged(ctx, user.ID, 0.2))
			require.NoError(t, uow.UserRepository().AddEarned(ctx, user.ID, 5))
			assert.Error(t, uow.UserRepository().AddEarned(ctx, "ghost", 5))

			found, err := uow.UserRepository().GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, 0.3, found.TotalPledged)
			assert.Equal(t, 5.0, found.TotalEarned)
		})
	})
}

func TestVaultRepository(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(NewStore(), nil)
	owner := testutil.CreateTestUser("owner", models.UserTypeWhisperer)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := testutil.CreateTestVaultAt(owner.ID, 1000, base)
	newer := testutil.CreateTestVaultAt(owner.ID, 2000, base.Add(time.Hour))
	newer.Category = models.CategorySports
	newer.IsFeatured = true
	other := testutil.CreateTestVaultAt("someone-else", 500, base.Add(2*time.Hour))

	within(t, factory, func(uow service.UnitOfWork) {
		require.NoError(t, uow.UserRepository().Create(ctx, owner))
		for _, v := range []*models.Vault{older, newer, other} {
			require.NoError(t, uow.VaultRepository().Create(ctx, v))
		}
	})

	t.Run("list is newest first with filters and offset", func(t *testing.T) {
		within(t, factory, func(uow service.UnitOfWork) {
			repo := uow.VaultRepository()

			all, err := repo.List(ctx, models.VaultFilter{}, models.Page{Limit: 10})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{other.ID, newer.ID, older.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

			featured := true
			onlyFeatured, err := repo.List(ctx, models.VaultFilter{Featured: &featured}, models.Page{Limit: 10})
			require.NoError(t, err)
			require.Len(t, onlyFeatured, 1)
			assert.Equal(t, newer.ID, onlyFeatured[0].ID)

			category := models.CategorySports
			sports, err := repo.List(ctx, models.VaultFilter{Category: &category}, models.Page{Limit: 10})
			require.NoError(t, err)
			assert.Len(t, sports, 1)

			paged, err := repo.List(ctx, models.VaultFilter{}, models.Page{Limit: 1, Skip: 1})
			require.NoError(t, err)
			require.Len(t, paged, 1)
			assert.Equal(t, newer.ID, paged[0].ID)

			beyond, err := repo.List(ctx, models.VaultFilter{}, models.Page{Limit: 10, Skip: 5})
			require.NoError(t, err)
			assert.Empty(t, beyond)

			mine, err := repo.ListByWhisperer(ctx, owner.ID)
			require.NoError(t, err)
			assert.Len(t, mine, 2)
		})
	})

	t.Run("update merges editable fields", func(t *testing.T) {
		title := "Renamed"
		tags := []string{"a", "b"}
		within(t, factory, func(uow service.UnitOfWork) {
			ok, err := uow.VaultRepository().Update(ctx, older.ID, models.VaultUpdate{Title: &title, Tags: &tags})
			require.NoError(t, err)
			assert.True(t, ok)
			tags[0] = "changed"

			found, err := uow.VaultRepository().GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, "Renamed", found.Title)
			assert.Equal(t, []string{"a", "b"}, found.Tags)

			missing, err := uow.VaultRepository().Update(ctx, "ghost", models.VaultUpdate{Title: &title})
			require.NoError(t, err)
			assert.False(t, missing)
		})
	})

	t.Run("apply pledge funds a live vault once", func(t *testing.T) {
		within(t, factory, func(uow service.UnitOfWork) {
			repo := uow.VaultRepository()

			partial, err := repo.ApplyPledge(ctx, older.ID, 600)
			require.NoError(t, err)
			assert.Equal(t, models.VaultStatusLive, partial.Status)

			funded, err := repo.ApplyPledge(ctx, older.ID, 400)
			require.NoError(t, err)
			assert.Equal(t, models.VaultStatusFunded, funded.Status)
			assert.Equal(t, 1000.0, funded.PledgedAmount)
			assert.Equal(t, 2, funded.BackersCount)

			unlocked, err := repo.MarkUnlocked(ctx, older.ID, base)
			require.NoError(t, err)
			require.NotNil(t, unlocked)
			assert.Equal(t, models.VaultStatusUnlocked, unlocked.Status)
			require.NotNil(t, unlocked.UnlockedAt)

			again, err := repo.ApplyPledge(ctx, older.ID, 50)
			require.NoError(t, err)
			assert.Equal(t, models.VaultStatusUnlocked, again.Status)
			assert.Equal(t, 3, again.BackersCount)

			notFunded, err := repo.MarkUnlocked(ctx, newer.ID, base)
			require.NoError(t, err)
			assert.Nil(t, notFunded)

			missing, err := repo.ApplyPledge(ctx, "ghost", 1)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	})

	t.Run("totals", func(t *testing.T) {
		within(t, factory, func(uow service.UnitOfWork) {
			totals, err := uow.VaultRepository().Totals(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, totals.CountByStatus[models.VaultStatusLive])
			assert.Equal(t, 1, totals.CountByStatus[models.VaultStatusUnlocked])
			assert.Equal(t, 1050.0, totals.TotalPledged)
			assert.Equal(t, 3500.0, totals.TotalGoal)
		})
	})
}

func TestPledgeAndCommentRepositories(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(NewStore(), nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := testutil.CreateTestPledge("vault-1", "user-1", 10)
	first.CreatedAt = base
	second := testutil.CreateTestPledge("vault-2", "user-1", 20)
	second.CreatedAt = base.Add(time.Minute)
	elsewhere := testutil.CreateTestPledge("vault-1", "user-2", 30)

	within(t, factory, func(uow service.UnitOfWork) {
		for _, p := range []*models.Pledge{first, second, elsewhere} {
			require.NoError(t, uow.PledgeRepository().Create(ctx, p))
		}
		require.NoError(t, uow.CommentRepository().Create(ctx, &models.Comment{ID: "c1", VaultID: "vault-1", CreatedAt: base}))
		require.NoError(t, uow.CommentRepository().Create(ctx, &models.Comment{ID: "c2", VaultID: "vault-1", CreatedAt: base.Add(time.Second)}))
		require.NoError(t, uow.CommentRepository().Create(ctx, &models.Comment{ID: "c3", VaultID: "vault-2", CreatedAt: base}))
	})

	within(t, factory, func(uow service.UnitOfWork) {
		mine, err := uow.PledgeRepository().ListByUser(ctx, "user-1", 10)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, second.ID, mine[0].ID)

		limited, err := uow.PledgeRepository().ListByUser(ctx, "user-1", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		has, err := uow.PledgeRepository().HasPledged(ctx, "user-2", "vault-1")
		require.NoError(t, err)
		assert.True(t, has)
		has, err = uow.PledgeRepository().HasPledged(ctx, "user-2", "vault-2")
		require.NoError(t, err)
		assert.False(t, has)

		comments, err := uow.CommentRepository().ListByVault(ctx, "vault-1", 10)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "c2", comments[0].ID)
	})
}

func TestStore_SerializesUnitsOfWork(t *testing.T) {
	ctx := context.Background()
	factory := NewUnitOfWorkFactory(NewStore(), nil)
	owner := testutil.CreateTestUser("owner", models.UserTypeWhisperer)
	vault := testutil.CreateTestVault(owner.ID, 1_000_000)

	within(t, factory, func(uow service.UnitOfWork) {
		require.NoError(t, uow.VaultRepository().Create(ctx, vault))
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := factory.Create()
			if err := uow.Begin(ctx); err != nil {
				t.Error(err)
				return
			}
			defer uow.Rollback()
			if _, err := uow.VaultRepository().ApplyPledge(ctx, vault.ID, 10); err != nil {
				t.Error(err)
				return
			}
			if err := uow.Commit(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	within(t, factory, func(uow service.UnitOfWork) {
		found, err := uow.VaultRepository().GetByID(ctx, vault.ID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, found.PledgedAmount)
		assert.Equal(t, 50, found.BackersCount)
	})
}
