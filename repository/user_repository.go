package repository

import (
	"context"
	"errors"
	"fmt"

	"hushhush/database"
	"hushhush/models"
	"hushhush/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, username, password_hash, user_type, is_verified, is_active,
	avatar_url, bio, credibility_score, total_earned, total_pledged, referral_code, referred_by,
	created_at, updated_at`

// UserRepository implements service.UserRepository on Postgres
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.UserType,
		&user.IsVerified,
		&user.IsActive,
		&user.AvatarURL,
		&user.Bio,
		&user.CredibilityScore,
		&user.TotalEarned,
		&user.TotalPledged,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer measure("user", "Create")()

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.q.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.UserType,
		user.IsVerified,
		user.IsActive,
		user.AvatarURL,
		user.Bio,
		user.CredibilityScore,
		user.TotalEarned,
		user.TotalPledged,
		user.ReferralCode,
		user.ReferredBy,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "idx_users_email":
				return fmt.Errorf("failed to create user: %w", service.ErrEmailTaken)
			case "idx_users_referral_code":
				return fmt.Errorf("failed to create user: %w", service.ErrReferralCodeTaken)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer measure("user", "GetByID")()
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer measure("user", "GetByEmail")()
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByReferralCode retrieves a user by referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	defer measure("user", "GetByReferralCode")()
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %v: %w", arg, err)
	}
	return user, nil
}

// UpdateProfile merges the non-nil profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	defer measure("user", "UpdateProfile")()

	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    bio = COALESCE($3, bio),
		    avatar_url = COALESCE($4, avatar_url),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, id, update.Username, update.Bio, update.AvatarURL))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile for user %s: %w", id, err)
	}
	return user, nil
}

// UpdateReputation sets the verification flag and credibility score
func (r *UserRepository) UpdateReputation(ctx context.Context, id string, isVerified bool, credibilityScore int) error {
	defer measure("user", "UpdateReputation")()

	query := `
		UPDATE users
		SET is_verified = $2, credibility_score = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id, isVerified, credibilityScore)
	if err != nil {
		return fmt.Errorf("failed to update reputation for user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// AddPledged increases the lifetime pledged total in place
func (r *UserRepository) AddPledged(ctx context.Context, id string, amount float64) error {
	defer measure("user", "AddPledged")()
	return r.addTo(ctx, "total_pledged", id, amount)
}

// AddEarned increases the lifetime earned total in place
func (r *UserRepository) AddEarned(ctx context.Context, id string, amount float64) error {
	defer measure("user", "AddEarned")()
	return r.addTo(ctx, "total_earned", id, amount)
}

// addTo is only called with the fixed column names above
func (r *UserRepository) addTo(ctx context.Context, column, id string, amount float64) error {
	query := fmt.Sprintf(`
		UPDATE users
		SET %[1]s = %[1]s + $2, updated_at = NOW()
		WHERE id = $1`, column)

	result, err := r.q.Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to add to %s for user %s: %w", column, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// Totals counts users by type and verification
func (r *UserRepository) Totals(ctx context.Context) (*models.UserTotals, error) {
	defer measure("user", "Totals")()

	query := `
		SELECT user_type, COUNT(*), COUNT(*) FILTER (WHERE is_verified)
		FROM users
		GROUP BY user_type`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate users: %w", err)
	}
	defer rows.Close()

	totals := &models.UserTotals{CountByType: make(map[models.UserType]int)}
	for rows.Next() {
		var userType models.UserType
		var count, verified int
		if err := rows.Scan(&userType, &count, &verified); err != nil {
			return nil, fmt.Errorf("failed to scan user totals: %w", err)
		}
		totals.CountByType[userType] = count
		totals.VerifiedUsers += verified
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user totals: %w", err)
	}
	return totals, nil
}
