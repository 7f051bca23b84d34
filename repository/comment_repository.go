package repository

import (
	"context"
	"fmt"

	"hushhush/database"
	"hushhush/models"
)

// CommentRepository implements service.CommentRepository on Postgres
type CommentRepository struct {
	q queryable
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{q: db.Pool}
}

// newCommentRepositoryWithTx creates a new comment repository with a transaction
func newCommentRepositoryWithTx(tx queryable) *CommentRepository {
	return &CommentRepository{q: tx}
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer measure("comment", "Create")()

	query := `
		INSERT INTO comments (id, vault_id, user_id, username, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.Exec(ctx, query,
		comment.ID,
		comment.VaultID,
		comment.UserID,
		comment.Username,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByVault returns a vault's comments, newest first
func (r *CommentRepository) ListByVault(ctx context.Context, vaultID string, limit int) ([]*models.Comment, error) {
	defer measure("comment", "ListByVault")()

	query := `
		SELECT id, vault_id, user_id, username, content, created_at
		FROM comments
		WHERE vault_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, vaultID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for vault %s: %w", vaultID, err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.VaultID,
			&comment.UserID,
			&comment.Username,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
