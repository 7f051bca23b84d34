package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VaultStatus represents the lifecycle state of a vault
type VaultStatus string

const (
	VaultStatusDraft     VaultStatus = "draft"
	VaultStatusLive      VaultStatus = "live"
	VaultStatusFunded    VaultStatus = "funded"
	VaultStatusUnlocked  VaultStatus = "unlocked"
	VaultStatusExpired   VaultStatus = "expired"
	VaultStatusCancelled VaultStatus = "cancelled"
)

// AllVaultStatuses lists every status in lifecycle order
var AllVaultStatuses = []VaultStatus{
	VaultStatusDraft,
	VaultStatusLive,
	VaultStatusFunded,
	VaultStatusUnlocked,
	VaultStatusExpired,
	VaultStatusCancelled,
}

// IsValid reports whether s is a known vault status
func (s VaultStatus) IsValid() bool {
	for _, status := range AllVaultStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// SecretType describes the medium of the gated content
type SecretType string

const (
	SecretTypeText  SecretType = "text"
	SecretTypeAudio SecretType = "audio"
)

// IsValid reports whether t is a known secret type
func (t SecretType) IsValid() bool {
	return t == SecretTypeText || t == SecretTypeAudio
}

// Category groups vaults for browsing
type Category string

const (
	CategoryUnhinged          Category = "Unhinged"
	CategoryBollywood         Category = "Bollywood Insider Secrets"
	CategoryCorporate         Category = "Corporate Whistleblowing"
	CategoryPolitical         Category = "Political Behind-the-scenes"
	CategoryInfluencerDrama   Category = "Social Media Influencer Drama"
	CategorySports            Category = "Sports Controversies"
	CategoryHistoricalMystery Category = "Historical Mysteries"
)

// AllCategories lists every browsable category
var AllCategories = []Category{
	CategoryUnhinged,
	CategoryBollywood,
	CategoryCorporate,
	CategoryPolitical,
	CategoryInfluencerDrama,
	CategorySports,
	CategoryHistoricalMystery,
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, category := range AllCategories {
		if c == category {
			return true
		}
	}
	return false
}

const (
	DefaultPlatformFeePercentage     = 5.0
	DefaultCredibilityBondPercentage = 5.0
)

// Vault is a funding campaign wrapping gated content
type Vault struct {
	ID                        string      `db:"id" json:"id"`
	Title                     string      `db:"title" json:"title"`
	Description               string      `db:"description" json:"description"`
	Category                  Category    `db:"category" json:"category"`
	SecretType                SecretType  `db:"secret_type" json:"secret_type"`
	Content                   string      `db:"content" json:"-"`
	Preview                   string      `db:"preview" json:"preview"`
	CoverImageURL             *string     `db:"cover_image_url" json:"cover_image_url"`
	WhispererID               string      `db:"whisperer_id" json:"whisperer_id"`
	FundingGoal               float64     `db:"funding_goal" json:"funding_goal"`
	PledgedAmount             float64     `db:"pledged_amount" json:"pledged_amount"`
	BackersCount              int         `db:"backers_count" json:"backers_count"`
	DurationDays              int         `db:"duration_days" json:"duration_days"`
	Status                    VaultStatus `db:"status" json:"status"`
	IsFeatured                bool        `db:"is_featured" json:"is_featured"`
	PlatformFeePercentage     float64     `db:"platform_fee_percentage" json:"platform_fee_percentage"`
	CredibilityBondPercentage float64     `db:"credibility_bond_percentage" json:"credibility_bond_percentage"`
	ContentWarnings           []string    `db:"content_warnings" json:"content_warnings"`
	Tags                      []string    `db:"tags" json:"tags"`
	CreatedAt                 time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time   `db:"updated_at" json:"updated_at"`
	Deadline                  time.Time   `db:"deadline" json:"deadline"`
	UnlockedAt                *time.Time  `db:"unlocked_at" json:"unlocked_at"`
}

// IsLive reports whether the vault is still collecting pledges toward its goal
func (v *Vault) IsLive() bool {
	return v.Status == VaultStatusLive
}

// IsUnlocked reports whether the gated content has been released
func (v *Vault) IsUnlocked() bool {
	return v.Status == VaultStatusUnlocked
}

// CanUnlock reports whether the vault may move to unlocked
func (v *Vault) CanUnlock() bool {
	return v.Status == VaultStatusFunded
}

// IsOwnedBy reports whether userID is the vault's whisperer
func (v *Vault) IsOwnedBy(userID string) bool {
	return v.WhispererID == userID
}

// GoalReached reports whether the pledged total meets the funding goal
func (v *Vault) GoalReached() bool {
	return v.PledgedAmount >= v.FundingGoal
}

// ProgressPercentage returns 100 * pledged / goal rounded to one decimal.
// A non-positive goal yields 0.
func (v *Vault) ProgressPercentage() float64 {
	if v.FundingGoal <= 0 {
		return 0
	}
	progress := decimal.NewFromFloat(v.PledgedAmount).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromFloat(v.FundingGoal)).
		Round(1)
	return progress.InexactFloat64()
}

// TimeLeft renders the remaining funding window. Days and hours are truncated.
func (v *Vault) TimeLeft(now time.Time) string {
	if !now.Before(v.Deadline) {
		return "Expired"
	}
	remaining := v.Deadline.Sub(now)
	if days := int(remaining / (24 * time.Hour)); days > 0 {
		return fmt.Sprintf("%d days", days)
	}
	if hours := int(remaining / time.Hour); hours > 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return "Less than 1 hour"
}

// VaultView is the public projection of a vault; content is never included
type VaultView struct {
	*Vault
	WhispererUsername  string  `json:"whisperer_username"`
	ProgressPercentage float64 `json:"progress_percentage"`
	TimeLeft           string  `json:"time_left"`
}

// UnknownName is shown when a referenced user or vault no longer resolves
const UnknownName = "Unknown"

// NewVaultView builds the public view of v. A nil owner renders as "Unknown".
func NewVaultView(v *Vault, owner *User, now time.Time) *VaultView {
	username := UnknownName
	if owner != nil {
		username = owner.Username
	}
	return &VaultView{
		Vault:              v,
		WhispererUsername:  username,
		ProgressPercentage: v.ProgressPercentage(),
		TimeLeft:           v.TimeLeft(now),
	}
}

// VaultFilter narrows vault listings; nil fields do not filter
type VaultFilter struct {
	Status   *VaultStatus
	Category *Category
	Featured *bool
}

// Page is offset pagination. Results are only stable while no vaults are inserted.
type Page struct {
	Limit int
	Skip  int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// VaultUpdate is a partial merge over the editable vault fields; nil fields are left untouched.
// Funding counters and status are not editable here.
type VaultUpdate struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Preview         *string   `json:"preview"`
	Content         *string   `json:"content"`
	CoverImageURL   *string   `json:"cover_image_url"`
	IsFeatured      *bool     `json:"is_featured"`
	ContentWarnings *[]string `json:"content_warnings"`
	Tags            *[]string `json:"tags"`
}

// IsEmpty reports whether the update changes nothing
func (u VaultUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Preview == nil && u.Content == nil &&
		u.CoverImageURL == nil && u.IsFeatured == nil && u.ContentWarnings == nil && u.Tags == nil
}

// Apply merges the update into v
func (u VaultUpdate) Apply(v *Vault) {
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.Preview != nil {
		v.Preview = *u.Preview
	}
	if u.Content != nil {
		v.Content = *u.Content
	}
	if u.CoverImageURL != nil {
		v.CoverImageURL = u.CoverImageURL
	}
	if u.IsFeatured != nil {
		v.IsFeatured = *u.IsFeatured
	}
	if u.ContentWarnings != nil {
		v.ContentWarnings = *u.ContentWarnings
	}
	if u.Tags != nil {
		v.Tags = *u.Tags
	}
}
