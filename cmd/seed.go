package cmd

import (
	"context"
	"fmt"

	"hushhush/api"
	"hushhush/auth"
	"hushhush/config"
	"hushhush/events"
	"hushhush/models"
	"hushhush/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// commentedVaults is how many of the newest vaults receive sample comments
const (
	commentedVaults  = 3
	commentsPerVault = 5
)

// SeedSummary counts what Seed created
type SeedSummary struct {
	Users    int
	Vaults   int
	Featured int
	Pledges  int
	Comments int
}

func seedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample users, vaults, pledges and comments",
		Long: `Load the sample data into the configured database.

Every sample account uses the password "password123".

Examples:
  hushhush seed
  hushhush seed --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Get()

			store, err := openStorage(ctx, cfg, events.NewBus())
			if err != nil {
				return err
			}
			defer store.Close()
			if store.db == nil {
				return fmt.Errorf("seed needs postgres storage, use serve --seed for memory storage")
			}

			if reset {
				log.Warn("Deleting all existing data")
				if err := store.Reset(ctx); err != nil {
					return fmt.Errorf("failed to reset data: %w", err)
				}
			}

			summary, err := Seed(ctx, newServices(store.factory, auth.NewBcryptHasher(cfg.BcryptCost)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d vaults (%d featured), %d pledges and %d comments\n",
				summary.Users, summary.Vaults, summary.Featured, summary.Pledges, summary.Comments)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all existing data first")

	return cmd
}

// Seed loads the sample data through the services, so every record obeys the same
// rules as one created over the API. Each vault receives one pledge per sample
// listener, sized as its sample total divided by its sample backer count.
func Seed(ctx context.Context, services api.Services) (*SeedSummary, error) {
	summary := &SeedSummary{}

	var whisperers, listeners []*models.User
	for _, sample := range sampleUsers {
		bio := sample.Bio
		user, err := services.Identity.Register(ctx, service.RegisterRequest{
			Email:    sample.Email,
			Username: sample.Username,
			Password: samplePassword,
			UserType: sample.UserType,
			Bio:      &bio,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", sample.Username, err)
		}
		if err := services.Identity.UpdateReputation(ctx, user.ID, true, sample.CredibilityScore); err != nil {
			return nil, fmt.Errorf("failed to set reputation for %s: %w", sample.Username, err)
		}
		summary.Users++
		log.WithField("username", user.Username).Debug("Seeded user")

		if user.UserType.CanWhisper() {
			whisperers = append(whisperers, user)
		}
		if user.UserType.CanListen() {
			listeners = append(listeners, user)
		}
	}
	if len(whisperers) == 0 || len(listeners) == 0 {
		return nil, fmt.Errorf("sample data needs at least one whisperer and one listener")
	}

	for i, sample := range sampleVaults {
		owner := whisperers[i%len(whisperers)]
		vault, err := services.Vaults.CreateVault(ctx, owner.ID, service.CreateVaultRequest{
			Title:           sample.Title,
			Description:     sample.Description,
			Category:        models.CategoryUnhinged,
			SecretType:      models.SecretTypeText,
			Content:         sample.Content,
			Preview:         sample.Preview,
			FundingGoal:     sample.FundingGoal,
			DurationDays:    sample.DurationDays,
			ContentWarnings: sample.ContentWarnings,
			Tags:            sample.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create vault %q: %w", sample.Title, err)
		}
		summary.Vaults++

		if sample.Featured {
			featured := true
			if _, err := services.Vaults.UpdateVault(ctx, vault.ID, owner.ID, models.VaultUpdate{IsFeatured: &featured}); err != nil {
				return nil, fmt.Errorf("failed to feature vault %q: %w", sample.Title, err)
			}
			summary.Featured++
		}

		amount, _ := decimal.NewFromFloat(sample.PledgedAmount).
			Div(decimal.NewFromInt(int64(sample.BackersCount))).
			Round(2).
			Float64()
		backers := min(sample.BackersCount, len(listeners))
		for j := 0; j < backers; j++ {
			if _, err := services.Pledges.CreatePledge(ctx, listeners[j%len(listeners)].ID, service.CreatePledgeRequest{
				VaultID: vault.ID,
				Amount:  amount,
			}); err != nil {
				return nil, fmt.Errorf("failed to pledge to vault %q: %w", sample.Title, err)
			}
			summary.Pledges++
		}
		log.WithFields(log.Fields{
			"vault_id": vault.ID,
			"owner":    owner.Username,
			"pledges":  backers,
		}).Debug("Seeded vault")
	}

	newest, err := services.Vaults.ListVaults(ctx, models.VaultFilter{}, models.Page{Limit: commentedVaults})
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	next := 0
	for _, vault := range newest {
		for j := 0; j < commentsPerVault; j++ {
			author := listeners[next%len(listeners)]
			if _, err := services.Comments.CreateComment(ctx, author.ID, service.CreateCommentRequest{
				VaultID: vault.ID,
				Content: sampleComments[next%len(sampleComments)],
			}); err != nil {
				return nil, fmt.Errorf("failed to comment on vault %q: %w", vault.Title, err)
			}
			summary.Comments++
			next++
		}
	}

	log.WithFields(log.Fields{
		"users":    summary.Users,
		"vaults":   summary.Vaults,
		"pledges":  summary.Pledges,
		"comments": summary.Comments,
	}).Info("Sample data loaded")
	return summary, nil
}
