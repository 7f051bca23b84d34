package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hushhush/models"
	"hushhush/service"

	"github.com/shopspring/decimal"
)

// addMoney sums in decimal, matching the NUMERIC money columns of the postgres driver
func addMoney(total, amount float64) float64 {
	return decimal.NewFromFloat(total).Add(decimal.NewFromFloat(amount)).InexactFloat64()
}

type userRepository struct {
	uow *unitOfWork
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	users := r.uow.store.users
	for _, existing := range users {
		if existing.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", service.ErrEmailTaken)
		}
		if existing.ReferralCode == user.ReferralCode {
			return fmt.Errorf("failed to create user: %w", service.ErrReferralCodeTaken)
		}
	}
	if _, exists := users[user.ID]; exists {
		return fmt.Errorf("failed to create user: duplicate id %s", user.ID)
	}

	users[user.ID] = cloneUser(user)
	r.uow.record(func() { delete(users, user.ID) })
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return cloneUser(r.uow.store.users[id]), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.uow.store.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByReferralCode(_ context.Context, code string) (*models.User, error) {
	for _, user := range r.uow.store.users {
		if user.ReferralCode == code {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

// mutate applies fn to a copy of the stored user and journals the previous version
func (r *userRepository) mutate(id string, fn func(*models.User)) *models.User {
	users := r.uow.store.users
	previous, ok := users[id]
	if !ok {
		return nil
	}

	updated := cloneUser(previous)
	fn(updated)
	updated.UpdatedAt = time.Now().UTC()
	users[id] = updated
	r.uow.record(func() { users[id] = previous })
	return cloneUser(updated)
}

func (r *userRepository) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	return r.mutate(id, func(u *models.User) {
		if update.Username != nil {
			u.Username = *update.Username
		}
		if update.Bio != nil {
			u.Bio = update.Bio
		}
		if update.AvatarURL != nil {
			u.AvatarURL = update.AvatarURL
		}
	}), nil
}

func (r *userRepository) UpdateReputation(_ context.Context, id string, isVerified bool, credibilityScore int) error {
	updated := r.mutate(id, func(u *models.User) {
		u.IsVerified = isVerified
		u.CredibilityScore = credibilityScore
	})
	if updated == nil {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (r *userRepository) AddPledged(_ context.Context, id string, amount float64) error {
	if r.mutate(id, func(u *models.User) { u.TotalPledged = addMoney(u.TotalPledged, amount) }) == nil {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (r *userRepository) AddEarned(_ context.Context, id string, amount float64) error {
	if r.mutate(id, func(u *models.User) { u.TotalEarned = addMoney(u.TotalEarned, amount) }) == nil {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (r *userRepository) Totals(_ context.Context) (*models.UserTotals, error) {
	totals := &models.UserTotals{CountByType: make(map[models.UserType]int)}
	for _, user := range r.uow.store.users {
		totals.CountByType[user.UserType]++
		if user.IsVerified {
			totals.VerifiedUsers++
		}
	}
	return totals, nil
}

type vaultRepository struct {
	uow *unitOfWork
}

func (r *vaultRepository) Create(_ context.Context, vault *models.Vault) error {
	vaults := r.uow.store.vaults
	if _, exists := vaults[vault.ID]; exists {
		return fmt.Errorf("failed to create vault: duplicate id %s", vault.ID)
	}

	vaults[vault.ID] = cloneVault(vault)
	r.uow.record(func() { delete(vaults, vault.ID) })
	return nil
}

func (r *vaultRepository) GetByID(_ context.Context, id string) (*models.Vault, error) {
	return cloneVault(r.uow.store.vaults[id]), nil
}

// GetByIDForUpdate needs no row lock; the unit of work already holds the store
func (r *vaultRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Vault, error) {
	return r.GetByID(ctx, id)
}

func matches(v *models.Vault, filter models.VaultFilter) bool {
	if filter.Status != nil && v.Status != *filter.Status {
		return false
	}
	if filter.Category != nil && v.Category != *filter.Category {
		return false
	}
	if filter.Featured != nil && v.IsFeatured != *filter.Featured {
		return false
	}
	return true
}

func (r *vaultRepository) List(_ context.Context, filter models.VaultFilter, page models.Page) ([]*models.Vault, error) {
	var selected []*models.Vault
	for _, vault := range r.uow.store.vaults {
		if matches(vault, filter) {
			selected = append(selected, vault)
		}
	}
	sortVaults(selected)

	if page.Skip >= len(selected) {
		return nil, nil
	}
	selected = selected[page.Skip:]
	if page.Limit > 0 && page.Limit < len(selected) {
		selected = selected[:page.Limit]
	}

	result := make([]*models.Vault, 0, len(selected))
	for _, vault := range selected {
		result = append(result, cloneVault(vault))
	}
	return result, nil
}

func (r *vaultRepository) ListByWhisperer(_ context.Context, whispererID string) ([]*models.Vault, error) {
	var result []*models.Vault
	for _, vault := range r.uow.store.vaults {
		if vault.WhispererID == whispererID {
			result = append(result, cloneVault(vault))
		}
	}
	sortVaults(result)
	return result, nil
}

// mutate applies fn to a copy of the stored vault and journals the previous version
func (r *vaultRepository) mutate(id string, fn func(*models.Vault) bool) *models.Vault {
	vaults := r.uow.store.vaults
	previous, ok := vaults[id]
	if !ok {
		return nil
	}

	updated := cloneVault(previous)
	if !fn(updated) {
		return nil
	}
	vaults[id] = updated
	r.uow.record(func() { vaults[id] = previous })
	return cloneVault(updated)
}

func (r *vaultRepository) Update(_ context.Context, id string, update models.VaultUpdate) (bool, error) {
	updated := r.mutate(id, func(v *models.Vault) bool {
		update.Apply(v)
		v.ContentWarnings = append([]string{}, v.ContentWarnings...)
		v.Tags = append([]string{}, v.Tags...)
		v.UpdatedAt = time.Now().UTC()
		return true
	})
	return updated != nil, nil
}

func (r *vaultRepository) ApplyPledge(_ context.Context, id string, amount float64) (*models.Vault, error) {
	return r.mutate(id, func(v *models.Vault) bool {
		v.PledgedAmount = addMoney(v.PledgedAmount, amount)
		v.BackersCount++
		if v.IsLive() && v.GoalReached() {
			v.Status = models.VaultStatusFunded
		}
		v.UpdatedAt = time.Now().UTC()
		return true
	}), nil
}

func (r *vaultRepository) MarkUnlocked(_ context.Context, id string, at time.Time) (*models.Vault, error) {
	return r.mutate(id, func(v *models.Vault) bool {
		if !v.CanUnlock() {
			return false
		}
		v.Status = models.VaultStatusUnlocked
		v.UnlockedAt = &at
		v.UpdatedAt = at
		return true
	}), nil
}

func (r *vaultRepository) Totals(_ context.Context) (*models.VaultTotals, error) {
	totals := &models.VaultTotals{CountByStatus: make(map[models.VaultStatus]int)}
	pledged, goal := decimal.Zero, decimal.Zero
	for _, vault := range r.uow.store.vaults {
		totals.CountByStatus[vault.Status]++
		pledged = pledged.Add(decimal.NewFromFloat(vault.PledgedAmount))
		goal = goal.Add(decimal.NewFromFloat(vault.FundingGoal))
	}
	totals.TotalPledged = pledged.InexactFloat64()
	totals.TotalGoal = goal.InexactFloat64()
	return totals, nil
}

type pledgeRepository struct {
	uow *unitOfWork
}

func (r *pledgeRepository) Create(_ context.Context, pledge *models.Pledge) error {
	store := r.uow.store
	n := len(store.pledges)
	store.pledges = append(store.pledges, clonePledge(pledge))
	r.uow.record(func() { store.pledges = store.pledges[:n] })
	return nil
}

func (r *pledgeRepository) ListByUser(_ context.Context, userID string, limit int) ([]*models.Pledge, error) {
	var result []*models.Pledge
	for _, pledge := range r.uow.store.pledges {
		if pledge.UserID == userID {
			result = append(result, clonePledge(pledge))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return newestFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *pledgeRepository) HasPledged(_ context.Context, userID, vaultID string) (bool, error) {
	for _, pledge := range r.uow.store.pledges {
		if pledge.UserID == userID && pledge.VaultID == vaultID {
			return true, nil
		}
	}
	return false, nil
}

type commentRepository struct {
	uow *unitOfWork
}

func (r *commentRepository) Create(_ context.Context, comment *models.Comment) error {
	store := r.uow.store
	n := len(store.comments)
	store.comments = append(store.comments, cloneComment(comment))
	r.uow.record(func() { store.comments = store.comments[:n] })
	return nil
}

func (r *commentRepository) ListByVault(_ context.Context, vaultID string, limit int) ([]*models.Comment, error) {
	var result []*models.Comment
	for _, comment := range r.uow.store.comments {
		if comment.VaultID == vaultID {
			result = append(result, cloneComment(comment))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return newestFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].ID, result[j].ID)
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}
