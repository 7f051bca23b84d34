package service

import (
	"context"
	"time"

	"hushhush/events"
	"hushhush/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id; nil when absent
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by email; nil when absent
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByReferralCode retrieves a user by referral code; nil when absent
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)

	// UpdateProfile merges the non-nil profile fields; nil when the user is absent
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)

	// UpdateReputation sets the verification flag and credibility score
	UpdateReputation(ctx context.Context, id string, isVerified bool, credibilityScore int) error

	// AddPledged atomically increases a user's lifetime pledged total
	AddPledged(ctx context.Context, id string, amount float64) error

	// AddEarned atomically increases a user's lifetime earned total
	AddEarned(ctx context.Context, id string, amount float64) error

	// Totals aggregates user counts by type and verification
	Totals(ctx context.Context) (*models.UserTotals, error)
}

// VaultRepository defines the interface for vault data access
type VaultRepository interface {
	// Create inserts a new vault
	Create(ctx context.Context, vault *models.Vault) error

	// GetByID retrieves a vault by id; nil when absent
	GetByID(ctx context.Context, id string) (*models.Vault, error)

	// GetByIDForUpdate retrieves a vault and locks it until the unit of work ends
	GetByIDForUpdate(ctx context.Context, id string) (*models.Vault, error)

	// List returns vaults matching filter, newest first, offset paginated
	List(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error)

	// ListByWhisperer returns every vault owned by whispererID, newest first
	ListByWhisperer(ctx context.Context, whispererID string) ([]*models.Vault, error)

	// Update merges the non-nil fields; reports whether a vault was updated
	Update(ctx context.Context, id string, update models.VaultUpdate) (bool, error)

	// ApplyPledge atomically adds amount to the pledged total, increments the backer count and
	// moves a live vault to funded once the goal is reached. Returns the vault after the update.
	ApplyPledge(ctx context.Context, id string, amount float64) (*models.Vault, error)

	// MarkUnlocked moves a funded vault to unlocked; nil when the vault is absent or not funded
	MarkUnlocked(ctx context.Context, id string, at time.Time) (*models.Vault, error)

	// Totals aggregates vault counts by status and funding sums
	Totals(ctx context.Context) (*models.VaultTotals, error)
}

// PledgeRepository defines the interface for pledge data access
type PledgeRepository interface {
	// Create inserts a new pledge
	Create(ctx context.Context, pledge *models.Pledge) error

	// ListByUser returns a user's pledges, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Pledge, error)

	// HasPledged reports whether the user has any pledge on the vault
	HasPledged(ctx context.Context, userID, vaultID string) (bool, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create inserts a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// ListByVault returns a vault's comments, newest first
	ListByVault(ctx context.Context, vaultID string, limit int) ([]*models.Comment, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork scopes repositories and published events to one transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	VaultRepository() VaultRepository
	PledgeRepository() PledgeRepository
	CommentRepository() CommentRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// IdentityService defines the interface for account operations
type IdentityService interface {
	// Register creates an account; Conflict when the email is taken
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)

	// Authenticate verifies credentials; Unauthenticated without saying which part was wrong
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// GetUser returns a user; NotFound when absent
	GetUser(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile changes the user-editable profile fields
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)

	// UpdateReputation sets verification and credibility, used by operators and seeding
	UpdateReputation(ctx context.Context, id string, isVerified bool, credibilityScore int) error
}

// VaultService defines the interface for vault ledger operations
type VaultService interface {
	// CreateVault opens a live vault owned by ownerID
	CreateVault(ctx context.Context, ownerID string, req CreateVaultRequest) (*models.Vault, error)

	// GetVault returns a vault including its content; NotFound when absent
	GetVault(ctx context.Context, id string) (*models.Vault, error)

	// GetVaultView returns the public view of a vault; NotFound when absent
	GetVaultView(ctx context.Context, id string) (*models.VaultView, error)

	// ListVaults returns vaults newest first
	ListVaults(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error)

	// ListVaultViews returns public views of vaults newest first
	ListVaultViews(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.VaultView, error)

	// UpdateVault merges editable fields; only the owner may update
	UpdateVault(ctx context.Context, id, callerID string, update models.VaultUpdate) (bool, error)

	// UnlockVault releases a funded vault's content; only the owner may unlock
	UnlockVault(ctx context.Context, id, callerID string) (*models.Vault, error)
}

// PledgeService defines the interface for the pledge engine
type PledgeService interface {
	// CreatePledge records a pledge and applies it to the vault ledger
	CreatePledge(ctx context.Context, userID string, req CreatePledgeRequest) (*models.Pledge, error)

	// ListMyPledges returns the caller's pledges, newest first
	ListMyPledges(ctx context.Context, userID string) ([]*models.PledgeView, error)
}

// AccessGate defines the interface for gated content reads
type AccessGate interface {
	// ReadContent returns the gated content when the caller may read it
	ReadContent(ctx context.Context, vaultID, callerID string) (*VaultContent, error)
}

// CommentService defines the interface for vault discussion
type CommentService interface {
	CreateComment(ctx context.Context, userID string, req CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, vaultID string) ([]*models.Comment, error)
}

// StatsService defines the interface for platform aggregates
type StatsService interface {
	VaultStats(ctx context.Context) (*models.VaultStats, error)
	UserStats(ctx context.Context) (*models.UserStats, error)
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// DashboardService defines the interface for per-user dashboards
type DashboardService interface {
	WhispererDashboard(ctx context.Context, userID string) (*models.WhispererDashboard, error)
	ListenerDashboard(ctx context.Context, userID string) (*models.ListenerDashboard, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
