package testutil

import (
	"time"

	"hushhush/models"

	"github.com/google/uuid"
)

// CreateTestUser creates a user with a unique id, email and referral code
func CreateTestUser(username string, userType models.UserType) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.NewString()
	return &models.User{
		ID:           id,
		Email:        username + "-" + id[:8] + "@example.com",
		Username:     username,
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhashnotarealhashnot",
		UserType:     userType,
		IsActive:     true,
		ReferralCode: models.NewReferralCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestVault creates a live vault owned by ownerID
func CreateTestVault(ownerID string, goal float64) *models.Vault {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Vault{
		ID:                        uuid.NewString(),
		Title:                     "Test vault",
		Description:               "A vault for tests",
		Category:                  models.CategoryUnhinged,
		SecretType:                models.SecretTypeText,
		Content:                   "gated content",
		Preview:                   "public preview",
		WhispererID:               ownerID,
		FundingGoal:               goal,
		DurationDays:              14,
		Status:                    models.VaultStatusLive,
		PlatformFeePercentage:     models.DefaultPlatformFeePercentage,
		CredibilityBondPercentage: models.DefaultCredibilityBondPercentage,
		ContentWarnings:           []string{},
		Tags:                      []string{},
		CreatedAt:                 now,
		UpdatedAt:                 now,
		Deadline:                  now.AddDate(0, 0, 14),
	}
}

// CreateTestVaultAt creates a vault with a fixed creation time, for ordering tests
func CreateTestVaultAt(ownerID string, goal float64, createdAt time.Time) *models.Vault {
	vault := CreateTestVault(ownerID, goal)
	vault.CreatedAt = createdAt
	vault.UpdatedAt = createdAt
	vault.Deadline = createdAt.AddDate(0, 0, vault.DurationDays)
	return vault
}

// CreateTestPledge creates an authorized pledge
func CreateTestPledge(vaultID, userID string, amount float64) *models.Pledge {
	return &models.Pledge{
		ID:        uuid.NewString(),
		VaultID:   vaultID,
		UserID:    userID,
		Amount:    amount,
		Status:    models.PledgeStatusAuthorized,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
