package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hushhush/database"
	"hushhush/models"

	"github.com/jackc/pgx/v5"
)

const vaultColumns = `id, title, description, category, secret_type, content, preview,
	cover_image_url, whisperer_id, funding_goal, pledged_amount, backers_count, duration_days,
	status, is_featured, platform_fee_percentage, credibility_bond_percentage, content_warnings,
	tags, created_at, updated_at, deadline, unlocked_at`

// VaultRepository implements service.VaultRepository on Postgres
type VaultRepository struct {
	q queryable
}

// NewVaultRepository creates a new vault repository
func NewVaultRepository(db *database.DB) *VaultRepository {
	return &VaultRepository{q: db.Pool}
}

// newVaultRepositoryWithTx creates a new vault repository with a transaction
func newVaultRepositoryWithTx(tx queryable) *VaultRepository {
	return &VaultRepository{q: tx}
}

func scanVault(row scanner) (*models.Vault, error) {
	var vault models.Vault
	err := row.Scan(
		&vault.ID,
		&vault.Title,
		&vault.Description,
		&vault.Category,
		&vault.SecretType,
		&vault.Content,
		&vault.Preview,
		&vault.CoverImageURL,
		&vault.WhispererID,
		&vault.FundingGoal,
		&vault.PledgedAmount,
		&vault.BackersCount,
		&vault.DurationDays,
		&vault.Status,
		&vault.IsFeatured,
		&vault.PlatformFeePercentage,
		&vault.CredibilityBondPercentage,
		&vault.ContentWarnings,
		&vault.Tags,
		&vault.CreatedAt,
		&vault.UpdatedAt,
		&vault.Deadline,
		&vault.UnlockedAt,
	)
	if err != nil {
		return nil, err
	}
	return &vault, nil
}

func collectVaults(rows pgx.Rows) ([]*models.Vault, error) {
	defer rows.Close()

	var vaults []*models.Vault
	for rows.Next() {
		vault, err := scanVault(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vault: %w", err)
		}
		vaults = append(vaults, vault)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vaults: %w", err)
	}
	return vaults, nil
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Create inserts a new vault
func (r *VaultRepository) Create(ctx context.Context, vault *models.Vault) error {
	defer measure("vault", "Create")()

	query := `
		INSERT INTO vaults (` + vaultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23)`

	_, err := r.q.Exec(ctx, query,
		vault.ID,
		vault.Title,
		vault.Description,
		vault.Category,
		vault.SecretType,
		vault.Content,
		vault.Preview,
		vault.CoverImageURL,
		vault.WhispererID,
		vault.FundingGoal,
		vault.PledgedAmount,
		vault.BackersCount,
		vault.DurationDays,
		vault.Status,
		vault.IsFeatured,
		vault.PlatformFeePercentage,
		vault.CredibilityBondPercentage,
		stringsOrEmpty(vault.ContentWarnings),
		stringsOrEmpty(vault.Tags),
		vault.CreatedAt,
		vault.UpdatedAt,
		vault.Deadline,
		vault.UnlockedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	return nil
}

// GetByID retrieves a vault by id
func (r *VaultRepository) GetByID(ctx context.Context, id string) (*models.Vault, error) {
	defer measure("vault", "GetByID")()
	return r.getOne(ctx, `SELECT `+vaultColumns+` FROM vaults WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a vault and holds its row lock until the transaction ends
func (r *VaultRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Vault, error) {
	defer measure("vault", "GetByIDForUpdate")()
	return r.getOne(ctx, `SELECT `+vaultColumns+` FROM vaults WHERE id = $1 FOR UPDATE`, id)
}

func (r *VaultRepository) getOne(ctx context.Context, query, id string) (*models.Vault, error) {
	vault, err := scanVault(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault %s: %w", id, err)
	}
	return vault, nil
}

// List returns vaults matching filter, newest first
func (r *VaultRepository) List(ctx context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error) {
	defer measure("vault", "List")()

	var conditions []string
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)))
	}

	query := `SELECT ` + vaultColumns + ` FROM vaults`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, page.Limit, page.Skip)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	return collectVaults(rows)
}

// ListByWhisperer returns every vault owned by whispererID, newest first
func (r *VaultRepository) ListByWhisperer(ctx context.Context, whispererID string) ([]*models.Vault, error) {
	defer measure("vault", "ListByWhisperer")()

	query := `
		SELECT ` + vaultColumns + `
		FROM vaults
		WHERE whisperer_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, whispererID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults for whisperer %s: %w", whispererID, err)
	}
	return collectVaults(rows)
}

// Update merges the non-nil editable fields
func (r *VaultRepository) Update(ctx context.Context, id string, update models.VaultUpdate) (bool, error) {
	defer measure("vault", "Update")()

	query := `
		UPDATE vaults
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    preview = COALESCE($4, preview),
		    content = COALESCE($5, content),
		    cover_image_url = COALESCE($6, cover_image_url),
		    is_featured = COALESCE($7, is_featured),
		    content_warnings = COALESCE($8, content_warnings),
		    tags = COALESCE($9, tags),
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.q.Exec(ctx, query,
		id,
		update.Title,
		update.Description,
		update.Preview,
		update.Content,
		update.CoverImageURL,
		update.IsFeatured,
		optionalStrings(update.ContentWarnings),
		optionalStrings(update.Tags),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update vault %s: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// optionalStrings keeps nil as SQL NULL and turns an explicit empty list into '{}'
func optionalStrings(values *[]string) []string {
	if values == nil {
		return nil
	}
	return stringsOrEmpty(*values)
}

// ApplyPledge adds a pledge to the funding counters in one statement. The funded transition
// only fires from live, so unlocked, expired and cancelled vaults keep their status.
func (r *VaultRepository) ApplyPledge(ctx context.Context, id string, amount float64) (*models.Vault, error) {
	defer measure("vault", "ApplyPledge")()

	query := `
		UPDATE vaults
		SET pledged_amount = pledged_amount + $2,
		    backers_count = backers_count + 1,
		    status = CASE
		        WHEN status = 'live' AND pledged_amount + $2 >= funding_goal THEN 'funded'
		        ELSE status
		    END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vaultColumns

	vault, err := scanVault(r.q.QueryRow(ctx, query, id, amount))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply pledge to vault %s: %w", id, err)
	}
	return vault, nil
}

// MarkUnlocked moves a funded vault to unlocked
func (r *VaultRepository) MarkUnlocked(ctx context.Context, id string, at time.Time) (*models.Vault, error) {
	defer measure("vault", "MarkUnlocked")()

	query := `
		UPDATE vaults
		SET status = 'unlocked', unlocked_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'funded'
		RETURNING ` + vaultColumns

	vault, err := scanVault(r.q.QueryRow(ctx, query, id, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unlock vault %s: %w", id, err)
	}
	return vault, nil
}

// Totals aggregates vault counts by status and funding sums
func (r *VaultRepository) Totals(ctx context.Context) (*models.VaultTotals, error) {
	defer measure("vault", "Totals")()

	query := `
		SELECT status, COUNT(*), COALESCE(SUM(pledged_amount), 0), COALESCE(SUM(funding_goal), 0)
		FROM vaults
		GROUP BY status`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vaults: %w", err)
	}
	defer rows.Close()

	totals := &models.VaultTotals{CountByStatus: make(map[models.VaultStatus]int)}
	for rows.Next() {
		var status models.VaultStatus
		var count int
		var pledged, goal float64
		if err := rows.Scan(&status, &count, &pledged, &goal); err != nil {
			return nil, fmt.Errorf("failed to scan vault totals: %w", err)
		}
		totals.CountByStatus[status] = count
		totals.TotalPledged += pledged
		totals.TotalGoal += goal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vault totals: %w", err)
	}
	return totals, nil
}
