package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PledgeStatus tracks the payment state of a pledge.
// Only authorized is produced; capture and refund are not implemented.
type PledgeStatus string

const (
	PledgeStatusAuthorized PledgeStatus = "authorized"
	PledgeStatusCaptured   PledgeStatus = "captured"
	PledgeStatusRefunded   PledgeStatus = "refunded"
)

var (
	// ReferralRate is the share of a pledge credited to the referrer
	ReferralRate = decimal.RequireFromString("0.05")
	// WhispererShare is what the whisperer keeps after the flat platform fee
	WhispererShare = decimal.RequireFromString("0.9")
)

// Pledge is one listener's commitment to one vault
type Pledge struct {
	ID                   string       `db:"id" json:"id"`
	VaultID              string       `db:"vault_id" json:"vault_id"`
	UserID               string       `db:"user_id" json:"user_id"`
	Amount               float64      `db:"amount" json:"amount"`
	Status               PledgeStatus `db:"status" json:"status"`
	PaymentID            *string      `db:"payment_id" json:"payment_id"`
	ReferrerID           *string      `db:"referrer_id" json:"referrer_id"`
	ReferralCreditEarned float64      `db:"referral_credit_earned" json:"referral_credit_earned"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	CapturedAt           *time.Time   `db:"captured_at" json:"captured_at"`
	RefundedAt           *time.Time   `db:"refunded_at" json:"refunded_at"`
}

// IsActive reports whether the pledge still counts as an open commitment
func (p *Pledge) IsActive() bool {
	return p.Status == PledgeStatusAuthorized
}

// PledgeView is a pledge as listed to its backer
type PledgeView struct {
	ID                   string       `json:"id"`
	VaultID              string       `json:"vault_id"`
	VaultTitle           string       `json:"vault_title"`
	Amount               float64      `json:"amount"`
	Status               PledgeStatus `json:"status"`
	ReferralCreditEarned float64      `json:"referral_credit_earned"`
	CreatedAt            time.Time    `json:"created_at"`
}

// NewPledgeView builds a listing entry. A nil vault renders as "Unknown".
func NewPledgeView(p *Pledge, vault *Vault) *PledgeView {
	title := UnknownName
	if vault != nil {
		title = vault.Title
	}
	return &PledgeView{
		ID:                   p.ID,
		VaultID:              p.VaultID,
		VaultTitle:           title,
		Amount:               p.Amount,
		Status:               p.Status,
		ReferralCreditEarned: p.ReferralCreditEarned,
		CreatedAt:            p.CreatedAt,
	}
}

// ReferralCredit returns 5% of amount when a referrer is present, otherwise 0
func ReferralCredit(amount float64, hasReferrer bool) float64 {
	if !hasReferrer {
		return 0
	}
	return decimal.NewFromFloat(amount).Mul(ReferralRate).InexactFloat64()
}

// WhispererEarnings returns the whisperer's share of a pledged total
func WhispererEarnings(pledged float64) float64 {
	return decimal.NewFromFloat(pledged).Mul(WhispererShare).InexactFloat64()
}
