package service

import (
	"context"
	"fmt"

	"hushhush/models"
)

// CanReadContent reports whether a caller may read a vault's gated content: the vault must be
// unlocked and the caller must either own it or have pledged to it.
func CanReadContent(vault *models.Vault, callerID string, hasPledged bool) bool {
	if vault == nil || !vault.IsUnlocked() {
		return false
	}
	return hasPledged || vault.IsOwnedBy(callerID)
}

type accessGate struct {
	uowFactory UnitOfWorkFactory
}

// NewAccessGate creates the content access gate
func NewAccessGate(uowFactory UnitOfWorkFactory) AccessGate {
	return &accessGate{uowFactory: uowFactory}
}

// ReadContent returns the gated content or a Forbidden error explaining why it is withheld
func (g *accessGate) ReadContent(ctx context.Context, vaultID, callerID string) (*VaultContent, error) {
	uow := g.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vault, err := uow.VaultRepository().GetByID(ctx, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	if vault == nil {
		return nil, notFound(msgVaultNotFound)
	}
	if !vault.IsUnlocked() {
		return nil, forbidden(msgNotUnlocked)
	}

	hasPledged := false
	if !vault.IsOwnedBy(callerID) {
		hasPledged, err = uow.PledgeRepository().HasPledged(ctx, callerID, vaultID)
		if err != nil {
			return nil, fmt.Errorf("failed to check pledge: %w", err)
		}
	}

	if !CanReadContent(vault, callerID, hasPledged) {
		return nil, forbidden(msgMustPledge)
	}

	return &VaultContent{
		VaultID:    vault.ID,
		Title:      vault.Title,
		SecretType: vault.SecretType,
		Content:    vault.Content,
	}, nil
}
