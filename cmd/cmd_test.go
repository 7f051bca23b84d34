package cmd

import (
	"bytes"
	"context"
	"testing"

	"hushhush/auth"
	"hushhush/events"
	"hushhush/models"
	"hushhush/repository/inmemory"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)
	defer log.SetFormatter(&log.TextFormatter{})

	t.Run("json", func(t *testing.T) {
		require.NoError(t, configureLogging("debug", "json"))
		assert.Equal(t, log.DebugLevel, log.GetLevel())
		assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
	})

	t.Run("text by default", func(t *testing.T) {
		require.NoError(t, configureLogging("warn", ""))
		assert.Equal(t, log.WarnLevel, log.GetLevel())
		assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
	})

	t.Run("bad level", func(t *testing.T) {
		assert.Error(t, configureLogging("loud", "text"))
	})

	t.Run("bad format", func(t *testing.T) {
		assert.Error(t, configureLogging("info", "xml"))
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	services := newServices(inmemory.NewUnitOfWorkFactory(store, events.NewBus()), auth.NewBcryptHasher(bcrypt.MinCost))

	summary, err := Seed(ctx, services)

	require.NoError(t, err)
	assert.Equal(t, &SeedSummary{Users: 5, Vaults: 6, Featured: 3, Pledges: 12, Comments: 15}, summary)

	t.Run("accounts sign in with the sample password", func(t *testing.T) {
		user, err := services.Identity.Authenticate(ctx, "corporate.whale@example.com", samplePassword)
		require.NoError(t, err)
		assert.True(t, user.IsVerified)
		assert.Equal(t, 92, user.CredibilityScore)
	})

	t.Run("featured vaults", func(t *testing.T) {
		featured := true
		vaults, err := services.Vaults.ListVaults(ctx, models.VaultFilter{Featured: &featured}, models.Page{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, vaults, 3)
	})

	t.Run("pledges split the sample totals", func(t *testing.T) {
		vaults, err := services.Vaults.ListVaults(ctx, models.VaultFilter{}, models.Page{Limit: 10})
		require.NoError(t, err)
		for _, vault := range vaults {
			if vault.Title == "Superstar's On-Set Meltdown That Cost ₹50 Crores" {
				assert.Equal(t, 1000.0, vault.PledgedAmount)
				assert.Equal(t, 2, vault.BackersCount)
				assert.Equal(t, models.VaultStatusLive, vault.Status)
			}
		}
	})

	t.Run("second run conflicts on email", func(t *testing.T) {
		_, err := Seed(ctx, services)
		assert.Error(t, err)
	})
}

func TestRootCommand(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), Version)
}
