package models

// VaultStats represents platform-wide vault aggregates
type VaultStats struct {
	TotalVaults  int                 `json:"total_vaults"`
	LiveVaults   int                 `json:"live_vaults"`
	FundedVaults int                 `json:"funded_vaults"` // funded + unlocked
	ByStatus     map[VaultStatus]int `json:"by_status"`
	TotalPledged float64             `json:"total_pledged"`
	TotalGoal    float64             `json:"total_goal"`
	TotalEarned  float64             `json:"total_earned"`
}

// UserStats represents platform-wide user aggregates
type UserStats struct {
	TotalUsers      int `json:"total_users"`
	TotalWhisperers int `json:"total_whisperers"` // whisperer + both
	TotalListeners  int `json:"total_listeners"`  // listener + both
	VerifiedUsers   int `json:"verified_users"`
}

// PlatformStats combines the vault and user aggregates
type PlatformStats struct {
	Vaults *VaultStats `json:"vaults"`
	Users  *UserStats  `json:"users"`
}

// VaultTotals is the raw aggregate a vault store returns
type VaultTotals struct {
	CountByStatus map[VaultStatus]int
	TotalPledged  float64
	TotalGoal     float64
}

// UserTotals is the raw aggregate a user store returns
type UserTotals struct {
	CountByType   map[UserType]int
	VerifiedUsers int
}

// WhispererDashboard is the owner's view of their vaults
type WhispererDashboard struct {
	Vaults []*VaultView              `json:"vaults"`
	Stats  WhispererDashboardSummary `json:"stats"`
}

// WhispererDashboardSummary holds the whisperer's headline numbers
type WhispererDashboardSummary struct {
	TotalEarned      float64 `json:"total_earned"`
	ActiveVaults     int     `json:"active_vaults"`
	TotalVaults      int     `json:"total_vaults"`
	CredibilityScore int     `json:"credibility_score"`
}

// ListenerDashboard is the backer's view of their pledges
type ListenerDashboard struct {
	Pledges []*PledgeView            `json:"pledges"`
	Stats   ListenerDashboardSummary `json:"stats"`
}

// ListenerDashboardSummary holds the listener's headline numbers
type ListenerDashboardSummary struct {
	TotalPledged    float64 `json:"total_pledged"`
	ActivePledges   int     `json:"active_pledges"`
	TotalPledges    int     `json:"total_pledges"`
	ReferralCredits float64 `json:"referral_credits"`
}
