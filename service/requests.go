package service

import (
	"net/mail"
	"strings"

	"hushhush/models"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// RegisterRequest carries the fields needed to open an account
type RegisterRequest struct {
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UserType   models.UserType `json:"user_type"`
	Bio        *string         `json:"bio"`
	ReferredBy *string         `json:"referred_by"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if r.ReferredBy != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.ReferredBy))
		if code == "" {
			r.ReferredBy = nil
		} else {
			r.ReferredBy = &code
		}
	}
}

func (r RegisterRequest) validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil || r.Email == "" {
		return invalid("A valid email is required")
	}
	if r.Username == "" {
		return invalid("Username is required")
	}
	if r.Password == "" {
		return invalid("Password is required")
	}
	if len(r.Password) > MaxPasswordBytes {
		return invalid("Password must be at most %d bytes", MaxPasswordBytes)
	}
	if !r.UserType.IsValid() {
		return invalid("Unknown user type %q", r.UserType)
	}
	return nil
}

// CreateVaultRequest carries the fields a whisperer supplies for a new vault
type CreateVaultRequest struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Category        models.Category   `json:"category"`
	SecretType      models.SecretType `json:"secret_type"`
	Content         string            `json:"content"`
	Preview         string            `json:"preview"`
	CoverImageURL   *string           `json:"cover_image_url"`
	FundingGoal     float64           `json:"funding_goal"`
	DurationDays    int               `json:"duration_days"`
	ContentWarnings []string          `json:"content_warnings"`
	Tags            []string          `json:"tags"`
}

func (r CreateVaultRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("Title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return invalid("Content is required")
	}
	if !r.Category.IsValid() {
		return invalid("Unknown category %q", r.Category)
	}
	if !r.SecretType.IsValid() {
		return invalid("Unknown secret type %q", r.SecretType)
	}
	if r.FundingGoal <= 0 {
		return invalid("Funding goal must be positive")
	}
	if r.DurationDays <= 0 {
		return invalid("Duration must be at least one day")
	}
	return nil
}

// CreatePledgeRequest carries a listener's pledge
type CreatePledgeRequest struct {
	VaultID    string  `json:"vault_id"`
	Amount     float64 `json:"amount"`
	ReferrerID *string `json:"referrer_id"`
}

func (r CreatePledgeRequest) validate() error {
	if r.VaultID == "" {
		return invalid("Vault id is required")
	}
	if r.Amount <= 0 {
		return invalid("Pledge amount must be positive")
	}
	return nil
}

func (r CreatePledgeRequest) hasReferrer() bool {
	return r.ReferrerID != nil && *r.ReferrerID != ""
}

// CreateCommentRequest carries a new comment
type CreateCommentRequest struct {
	VaultID string `json:"vault_id"`
	Content string `json:"content"`
}

func (r CreateCommentRequest) validate() error {
	if r.VaultID == "" {
		return invalid("Vault id is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return invalid("Comment content is required")
	}
	return nil
}

// VaultContent is the gated part of a vault
type VaultContent struct {
	VaultID    string            `json:"vault_id"`
	Title      string            `json:"title"`
	SecretType models.SecretType `json:"secret_type"`
	Content    string            `json:"content"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
