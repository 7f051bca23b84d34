package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType is the role a user plays on the marketplace
type UserType string

const (
	UserTypeWhisperer UserType = "whisperer"
	UserTypeListener  UserType = "listener"
	UserTypeBoth      UserType = "both"
)

// IsValid reports whether t is one of the known user types
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeWhisperer, UserTypeListener, UserTypeBoth:
		return true
	}
	return false
}

// CanWhisper reports whether the role may own vaults
func (t UserType) CanWhisper() bool {
	return t == UserTypeWhisperer || t == UserTypeBoth
}

// CanListen reports whether the role may pledge
func (t UserType) CanListen() bool {
	return t == UserTypeListener || t == UserTypeBoth
}

// User represents a registered account
type User struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	Username         string    `db:"username" json:"username"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	UserType         UserType  `db:"user_type" json:"user_type"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	AvatarURL        *string   `db:"avatar_url" json:"avatar_url"`
	Bio              *string   `db:"bio" json:"bio"`
	CredibilityScore int       `db:"credibility_score" json:"credibility_score"`
	TotalEarned      float64   `db:"total_earned" json:"total_earned"`
	TotalPledged     float64   `db:"total_pledged" json:"total_pledged"`
	ReferralCode     string    `db:"referral_code" json:"referral_code"`
	ReferredBy       *string   `db:"referred_by" json:"referred_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries the user-editable profile fields; nil fields are left untouched
type ProfileUpdate struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// IsEmpty reports whether the update changes nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.Bio == nil && u.AvatarURL == nil
}

// NewReferralCode returns an 8 character upper-case code derived from a random UUID
func NewReferralCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
