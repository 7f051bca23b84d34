package events

import (
	"context"
	"sync"

	"hushhush/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserRegistered EventType = "user_registered"
	EventTypeVaultCreated   EventType = "vault_created"
	EventTypePledgeCreated  EventType = "pledge_created"
	EventTypeVaultFunded    EventType = "vault_funded"
	EventTypeVaultUnlocked  EventType = "vault_unlocked"
)

// AllEventTypes lists every event type the services publish
var AllEventTypes = []EventType{
	EventTypeUserRegistered,
	EventTypeVaultCreated,
	EventTypePledgeCreated,
	EventTypeVaultFunded,
	EventTypeVaultUnlocked,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserRegisteredEvent represents a new account
type UserRegisteredEvent struct {
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	UserType   models.UserType `json:"user_type"`
	ReferredBy *string         `json:"referred_by,omitempty"`
}

func (e UserRegisteredEvent) Type() EventType {
	return EventTypeUserRegistered
}

// VaultCreatedEvent represents a vault going live
type VaultCreatedEvent struct {
	VaultID     string          `json:"vault_id"`
	WhispererID string          `json:"whisperer_id"`
	Title       string          `json:"title"`
	Category    models.Category `json:"category"`
	FundingGoal float64         `json:"funding_goal"`
}

func (e VaultCreatedEvent) Type() EventType {
	return EventTypeVaultCreated
}

// PledgeCreatedEvent represents an accepted pledge and the vault totals after it
type PledgeCreatedEvent struct {
	PledgeID       string  `json:"pledge_id"`
	VaultID        string  `json:"vault_id"`
	UserID         string  `json:"user_id"`
	Amount         float64 `json:"amount"`
	ReferralCredit float64 `json:"referral_credit"`
	PledgedAmount  float64 `json:"pledged_amount"`
	BackersCount   int     `json:"backers_count"`
}

func (e PledgeCreatedEvent) Type() EventType {
	return EventTypePledgeCreated
}

// VaultFundedEvent represents a live vault reaching its goal
type VaultFundedEvent struct {
	VaultID       string  `json:"vault_id"`
	WhispererID   string  `json:"whisperer_id"`
	Title         string  `json:"title"`
	FundingGoal   float64 `json:"funding_goal"`
	PledgedAmount float64 `json:"pledged_amount"`
	BackersCount  int     `json:"backers_count"`
}

func (e VaultFundedEvent) Type() EventType {
	return EventTypeVaultFunded
}

// VaultUnlockedEvent represents a vault releasing its content to backers
type VaultUnlockedEvent struct {
	VaultID      string  `json:"vault_id"`
	WhispererID  string  `json:"whisperer_id"`
	Title        string  `json:"title"`
	BackersCount int     `json:"backers_count"`
	Earnings     float64 `json:"earnings"`
}

func (e VaultUnlockedEvent) Type() EventType {
	return EventTypeVaultUnlocked
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events published inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush emits pending events on the underlying bus. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// the request context may be cancelled as soon as the handler returns
	eventCtx := context.Background()

	if b.real == nil {
		b.pending = nil
		return nil
	}
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	log.WithField("flushed", len(b.pending)).Debug("Flushed pending events")
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
