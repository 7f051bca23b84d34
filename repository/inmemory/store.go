// Package inmemory is a process-local storage driver. A unit of work holds the store lock from
// Begin until Commit or Rollback, so units of work are fully serialized; rollback replays an
// undo journal.
package inmemory

import (
	"sort"
	"sync"
	"time"

	"hushhush/models"
)

// Store holds every record in memory
type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	vaults   map[string]*models.Vault
	pledges  []*models.Pledge
	comments []*models.Comment
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		vaults: make(map[string]*models.Vault),
	}
}

// Reset empties the store
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*models.User)
	s.vaults = make(map[string]*models.Vault)
	s.pledges = nil
	s.comments = nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneVault(v *models.Vault) *models.Vault {
	if v == nil {
		return nil
	}
	c := *v
	c.ContentWarnings = append([]string{}, v.ContentWarnings...)
	c.Tags = append([]string{}, v.Tags...)
	if v.UnlockedAt != nil {
		at := *v.UnlockedAt
		c.UnlockedAt = &at
	}
	return &c
}

func clonePledge(p *models.Pledge) *models.Pledge {
	c := *p
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	return &c
}

// newestFirst orders by creation time descending with id as the tiebreaker
func newestFirst(createdA, createdB time.Time, idA, idB string) bool {
	if !createdA.Equal(createdB) {
		return createdA.After(createdB)
	}
	return idA > idB
}

func sortVaults(vaults []*models.Vault) {
	sort.Slice(vaults, func(i, j int) bool {
		return newestFirst(vaults[i].CreatedAt, vaults[j].CreatedAt, vaults[i].ID, vaults[j].ID)
	})
}
