package repository

import (
	"context"
	"fmt"

	"hushhush/database"
	"hushhush/models"
)

const pledgeColumns = `id, vault_id, user_id, amount, status, payment_id, referrer_id,
	referral_credit_earned, created_at, captured_at, refunded_at`

// PledgeRepository implements service.PledgeRepository on Postgres
type PledgeRepository struct {
	q queryable
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *database.DB) *PledgeRepository {
	return &PledgeRepository{q: db.Pool}
}

// newPledgeRepositoryWithTx creates a new pledge repository with a transaction
func newPledgeRepositoryWithTx(tx queryable) *PledgeRepository {
	return &PledgeRepository{q: tx}
}

// Create inserts a new pledge
func (r *PledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	defer measure("pledge", "Create")()

	query := `
		INSERT INTO pledges (` + pledgeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.q.Exec(ctx, query,
		pledge.ID,
		pledge.VaultID,
		pledge.UserID,
		pledge.Amount,
		pledge.Status,
		pledge.PaymentID,
		pledge.ReferrerID,
		pledge.ReferralCreditEarned,
		pledge.CreatedAt,
		pledge.CapturedAt,
		pledge.RefundedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pledge: %w", err)
	}
	return nil
}

// ListByUser returns a user's pledges, newest first
func (r *PledgeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Pledge, error) {
	defer measure("pledge", "ListByUser")()

	query := `
		SELECT ` + pledgeColumns + `
		FROM pledges
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pledges for user %s: %w", userID, err)
	}
	defer rows.Close()

	var pledges []*models.Pledge
	for rows.Next() {
		var pledge models.Pledge
		err := rows.Scan(
			&pledge.ID,
			&pledge.VaultID,
			&pledge.UserID,
			&pledge.Amount,
			&pledge.Status,
			&pledge.PaymentID,
			&pledge.ReferrerID,
			&pledge.ReferralCreditEarned,
			&pledge.CreatedAt,
			&pledge.CapturedAt,
			&pledge.RefundedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pledge: %w", err)
		}
		pledges = append(pledges, &pledge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pledges: %w", err)
	}
	return pledges, nil
}

// HasPledged reports whether the user has any pledge on the vault
func (r *PledgeRepository) HasPledged(ctx context.Context, userID, vaultID string) (bool, error) {
	defer measure("pledge", "HasPledged")()

	query := `SELECT EXISTS (SELECT 1 FROM pledges WHERE vault_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, vaultID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pledge by %s on vault %s: %w", userID, vaultID, err)
	}
	return exists, nil
}
