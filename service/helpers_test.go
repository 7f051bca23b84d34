package service

import (
	"testing"
	"time"

	"hushhush/models"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

type testDeps struct {
	factory  *MockUnitOfWorkFactory
	uow      *MockUnitOfWork
	users    *MockUserRepository
	vaults   *MockVaultRepository
	pledges  *MockPledgeRepository
	comments *MockCommentRepository
	bus      *MockEventPublisher
}

func newTestDeps() *testDeps {
	d := &testDeps{
		factory:  new(MockUnitOfWorkFactory),
		uow:      new(MockUnitOfWork),
		users:    new(MockUserRepository),
		vaults:   new(MockVaultRepository),
		pledges:  new(MockPledgeRepository),
		comments: new(MockCommentRepository),
		bus:      new(MockEventPublisher),
	}
	d.uow.SetRepositories(d.users, d.vaults, d.pledges, d.comments, d.bus)
	d.factory.On("Create").Return(d.uow)
	return d
}

// setupBasicTransactionMocks expects a unit of work that begins, commits and rolls back
func setupBasicTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

// setupReadOnlyTransactionMocks expects a unit of work that never commits
func setupReadOnlyTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

func (d *testDeps) assertAllMockExpectations(t *testing.T) {
	d.factory.AssertExpectations(t)
	d.uow.AssertExpectations(t)
	d.users.AssertExpectations(t)
	d.vaults.AssertExpectations(t)
	d.pledges.AssertExpectations(t)
	d.comments.AssertExpectations(t)
	d.bus.AssertExpectations(t)
}

func createTestUser(id string, userType models.UserType) *models.User {
	return &models.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     "user-" + id,
		PasswordHash: "hashed",
		UserType:     userType,
		IsActive:     true,
		ReferralCode: "REF" + id,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
}

func createTestVault(id, ownerID string, status models.VaultStatus, goal, pledged float64) *models.Vault {
	return &models.Vault{
		ID:              id,
		Title:           "Vault " + id,
		Description:     "description",
		Category:        models.CategoryUnhinged,
		SecretType:      models.SecretTypeText,
		Content:         "the secret",
		Preview:         "a preview",
		WhispererID:     ownerID,
		FundingGoal:     goal,
		PledgedAmount:   pledged,
		DurationDays:    14,
		Status:          status,
		ContentWarnings: []string{},
		Tags:            []string{},
		CreatedAt:       fixedNow,
		UpdatedAt:       fixedNow,
		Deadline:        fixedNow.AddDate(0, 0, 14),
	}
}

func withPledge(v *models.Vault, amount float64, status models.VaultStatus) *models.Vault {
	after := *v
	after.PledgedAmount += amount
	after.BackersCount++
	after.Status = status
	return &after
}

func strPtr(s string) *string {
	return &s
}
