package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hushhush/events"
	"hushhush/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type vaultService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewVaultService creates a new vault ledger service
func NewVaultService(uowFactory UnitOfWorkFactory) VaultService {
	return &vaultService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// CreateVault opens a live vault with zeroed funding counters
func (s *vaultService) CreateVault(ctx context.Context, ownerID string, req CreateVaultRequest) (*models.Vault, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	owner, err := uow.UserRepository().GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, notFound(msgUserNotFound)
	}
	if !owner.UserType.CanWhisper() {
		return nil, forbidden(msgOnlyWhisperers)
	}

	now := s.now().UTC()
	vault := &models.Vault{
		ID:                        uuid.NewString(),
		Title:                     strings.TrimSpace(req.Title),
		Description:               req.Description,
		Category:                  req.Category,
		SecretType:                req.SecretType,
		Content:                   req.Content,
		Preview:                   req.Preview,
		CoverImageURL:             req.CoverImageURL,
		WhispererID:               owner.ID,
		FundingGoal:               req.FundingGoal,
		DurationDays:              req.DurationDays,
		Status:                    models.VaultStatusLive,
		PlatformFeePercentage:     models.DefaultPlatformFeePercentage,
		CredibilityBondPercentage: models.DefaultCredibilityBondPercentage,
		ContentWarnings:           nonNil(req.ContentWarnings),
		Tags:                      nonNil(req.Tags),
		CreatedAt:                 now,
		UpdatedAt:                 now,
		Deadline:                  now.AddDate(0, 0, req.DurationDays),
	}

	if err := uow.VaultRepository().Create(ctx, vault); err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	uow.EventBus().Publish(events.VaultCreatedEvent{
		VaultID:     vault.ID,
		WhispererID: vault.WhispererID,
		Title:       vault.Title,
		Category:    vault.Category,
		FundingGoal: vault.FundingGoal,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"vaultID":     vault.ID,
		"whispererID": vault.WhispererID,
		"fundingGoal": vault.FundingGoal,
	}).Info("Vault created")

	return vault, nil
}

// GetVault returns a vault including its gated content
func (s *vaultService) GetVault(ctx context.Context, id string) (*models.Vault, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, notFound(msgVaultNotFound)
	}
	return vault, nil
}

// GetVaultView returns the public view of a vault with owner, progress and time left
func (s *vaultService) GetVaultView(ctx context.Context, id string) (*models.VaultView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, notFound(msgVaultNotFound)
	}

	views, err := buildVaultViews(ctx, uow.UserRepository(), []*models.Vault{vault}, s.now())
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListVaults returns vaults newest first
func (s *vaultService) ListVaults(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vaults, err := uow.VaultRepository().List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	return vaults, nil
}

// ListVaultViews returns public vault views newest first
func (s *vaultService) ListVaultViews(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.VaultView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vaults, err := uow.VaultRepository().List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	return buildVaultViews(ctx, uow.UserRepository(), vaults, s.now())
}

// UpdateVault merges editable fields. Concurrent updates are last-write-wins per field.
func (s *vaultService) UpdateVault(ctx context.Context, id, callerID string, update models.VaultUpdate) (bool, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return false, invalid("Title cannot be empty")
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		return false, invalid("Content cannot be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return false, notFound(msgVaultNotFound)
	}
	if !vault.IsOwnedBy(callerID) {
		return false, forbidden(msgNotVaultOwner)
	}
	if update.IsEmpty() {
		return false, nil
	}

	applied, err := uow.VaultRepository().Update(ctx, id, update)
	if err != nil {
		return false, fmt.Errorf("failed to update vault: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return applied, nil
}

// UnlockVault moves a funded vault to unlocked and credits the whisperer's share
func (s *vaultService) UnlockVault(ctx context.Context, id, callerID string) (*models.Vault, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, notFound(msgVaultNotFound)
	}
	if !vault.IsOwnedBy(callerID) {
		return nil, forbidden(msgNotVaultOwner)
	}
	if !vault.CanUnlock() {
		return nil, conflict(msgUnlockRequiresFund)
	}

	unlocked, err := uow.VaultRepository().MarkUnlocked(ctx, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to unlock vault: %w", err)
	}
	if unlocked == nil {
		return nil, conflict(msgUnlockRequiresFund)
	}

	earnings := models.WhispererEarnings(unlocked.PledgedAmount)
	if earnings > 0 {
		if err := uow.UserRepository().AddEarned(ctx, unlocked.WhispererID, earnings); err != nil {
			return nil, fmt.Errorf("failed to credit whisperer: %w", err)
		}
	}

	uow.EventBus().Publish(events.VaultUnlockedEvent{
		VaultID:      unlocked.ID,
		WhispererID:  unlocked.WhispererID,
		Title:        unlocked.Title,
		BackersCount: unlocked.BackersCount,
		Earnings:     earnings,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"vaultID":  unlocked.ID,
		"earnings": earnings,
	}).Info("Vault unlocked")

	return unlocked, nil
}

// buildVaultViews resolves each vault's owner once
func buildVaultViews(ctx context.Context, users UserRepository, vaults []*models.Vault, now time.Time) ([]*models.VaultView, error) {
	owners := make(map[string]*models.User)
	views := make([]*models.VaultView, 0, len(vaults))
	for _, vault := range vaults {
		owner, seen := owners[vault.WhispererID]
		if !seen {
			var err error
			owner, err = users.GetByID(ctx, vault.WhispererID)
			if err != nil {
				return nil, fmt.Errorf("failed to get vault owner: %w", err)
			}
			owners[vault.WhispererID] = owner
		}
		views = append(views, models.NewVaultView(vault, owner, now))
	}
	return views, nil
}
