package service

import (
	"context"
	"time"

	"hushhush/events"
	"hushhush/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateReputation(ctx context.Context, id string, isVerified bool, credibilityScore int) error {
	args := m.Called(ctx, id, isVerified, credibilityScore)
	return args.Error(0)
}

func (m *MockUserRepository) AddPledged(ctx context.Context, id string, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) AddEarned(ctx context.Context, id string, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) Totals(ctx context.Context) (*models.UserTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserTotals), args.Error(1)
}

// MockVaultRepository is a mock implementation of VaultRepository
type MockVaultRepository struct {
	mock.Mock
}

func (m *MockVaultRepository) Create(ctx context.Context, vault *models.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

func (m *MockVaultRepository) GetByID(ctx context.Context, id string) (*models.Vault, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Vault, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) List(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) ListByWhisperer(ctx context.Context, whispererID string) ([]*models.Vault, error) {
	args := m.Called(ctx, whispererID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) Update(ctx context.Context, id string, update models.VaultUpdate) (bool, error) {
	args := m.Called(ctx, id, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockVaultRepository) ApplyPledge(ctx context.Context, id string, amount float64) (*models.Vault, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) MarkUnlocked(ctx context.Context, id string, at time.Time) (*models.Vault, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vault), args.Error(1)
}

func (m *MockVaultRepository) Totals(ctx context.Context) (*models.VaultTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultTotals), args.Error(1)
}

// MockPledgeRepository is a mock implementation of PledgeRepository
type MockPledgeRepository struct {
	mock.Mock
}

func (m *MockPledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	args := m.Called(ctx, pledge)
	return args.Error(0)
}

func (m *MockPledgeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Pledge, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pledge), args.Error(1)
}

func (m *MockPledgeRepository) HasPledged(ctx context.Context, userID, vaultID string) (bool, error) {
	args := m.Called(ctx, userID, vaultID)
	return args.Bool(0), args.Error(1)
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByVault(ctx context.Context, vaultID string, limit int) ([]*models.Comment, error) {
	args := m.Called(ctx, vaultID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are injected with
// SetRepositories; only Begin, Commit and Rollback are recorded as calls.
type MockUnitOfWork struct {
	mock.Mock
	userRepo    UserRepository
	vaultRepo   VaultRepository
	pledgeRepo  PledgeRepository
	commentRepo CommentRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, vaultRepo VaultRepository, pledgeRepo PledgeRepository, commentRepo CommentRepository, eventBus EventPublisher) {
	m.userRepo = userRepo
	m.vaultRepo = vaultRepo
	m.pledgeRepo = pledgeRepo
	m.commentRepo = commentRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) VaultRepository() VaultRepository {
	return m.vaultRepo
}

func (m *MockUnitOfWork) PledgeRepository() PledgeRepository {
	return m.pledgeRepo
}

func (m *MockUnitOfWork) CommentRepository() CommentRepository {
	return m.commentRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockPasswordHasher is a mock implementation of PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockPledgeRecorder is a mock implementation of PledgeRecorder
type MockPledgeRecorder struct {
	mock.Mock
}

func (m *MockPledgeRecorder) RecordPledge(amount float64, funded bool) {
	m.Called(amount, funded)
}
