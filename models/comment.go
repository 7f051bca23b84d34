package models

import (
	"time"
)

// Comment is a vault-scoped message. Username is a snapshot taken when the comment was
// written and is not updated when the author renames.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	VaultID   string    `db:"vault_id" json:"vault_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MaxCommentsListed caps comment listings per vault
const MaxCommentsListed = 100
