package repository

import (
	"context"
	"testing"
	"time"

	"hushhush/models"
	"hushhush/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPledgeRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	users := NewUserRepository(testDB.DB)
	vaults := NewVaultRepository(testDB.DB)
	repo := NewPledgeRepository(testDB.DB)
	ctx := context.Background()

	owner := createVaultOwner(t, users)
	backer := testutil.CreateTestUser("CrimeListener", models.UserTypeListener)
	stranger := testutil.CreateTestUser("Stranger", models.UserTypeListener)
	require.NoError(t, users.Create(ctx, backer))
	require.NoError(t, users.Create(ctx, stranger))

	vault := testutil.CreateTestVault(owner.ID, 1000)
	require.NoError(t, vaults.Create(ctx, vault))

	first := testutil.CreateTestPledge(vault.ID, backer.ID, 100)
	first.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := testutil.CreateTestPledge(vault.ID, backer.ID, 250)
	referrer := owner.ID
	second.ReferrerID = &referrer
	second.ReferralCreditEarned = 12.5
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("list newest first", func(t *testing.T) {
		pledges, err := repo.ListByUser(ctx, backer.ID, 10)
		require.NoError(t, err)
		require.Len(t, pledges, 2)
		assert.Equal(t, second.ID, pledges[0].ID)
		assert.Equal(t, 12.5, pledges[0].ReferralCreditEarned)
		assert.Equal(t, &referrer, pledges[0].ReferrerID)
		assert.Nil(t, pledges[1].ReferrerID)
		assert.Equal(t, models.PledgeStatusAuthorized, pledges[1].Status)
	})

	t.Run("list respects limit", func(t *testing.T) {
		pledges, err := repo.ListByUser(ctx, backer.ID, 1)
		require.NoError(t, err)
		assert.Len(t, pledges, 1)
	})

	t.Run("has pledged", func(t *testing.T) {
		pledged, err := repo.HasPledged(ctx, backer.ID, vault.ID)
		require.NoError(t, err)
		assert.True(t, pledged)

		pledged, err = repo.HasPledged(ctx, stranger.ID, vault.ID)
		require.NoError(t, err)
		assert.False(t, pledged)
	})
}

func TestCommentRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	users := NewUserRepository(testDB.DB)
	vaults := NewVaultRepository(testDB.DB)
	repo := NewCommentRepository(testDB.DB)
	ctx := context.Background()

	owner := createVaultOwner(t, users)
	vault := testutil.CreateTestVault(owner.ID, 1000)
	require.NoError(t, vaults.Create(ctx, vault))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			ID:        content,
			VaultID:   vault.ID,
			UserID:    owner.ID,
			Username:  owner.Username,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	comments, err := repo.ListByVault(ctx, vault.ID, 2)

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, owner.Username, comments[0].Username)

	empty, err := repo.ListByVault(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
