package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"hushhush/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
	notify   chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{notify: make(chan struct{}, 10)}
}

func (p *fakePublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, data: data})
	p.notify <- struct{}{}
	return nil
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "hushhush.vault_funded", SubjectFor(events.EventTypeVaultFunded))

	subjects := AllSubjects()
	assert.Len(t, subjects, len(events.AllEventTypes))
	assert.Contains(t, subjects, "hushhush.pledge_created")
	assert.Contains(t, subjects, "hushhush.user_registered")
}

func TestEventForwarder_Handle(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("wraps the event in an envelope", func(t *testing.T) {
		publisher := newFakePublisher()
		forwarder := NewEventForwarder(publisher)
		forwarder.now = func() time.Time { return at }

		forwarder.Handle(context.Background(), events.VaultFundedEvent{
			VaultID:       "vault-1",
			WhispererID:   "whisperer-1",
			Title:         "Secret",
			FundingGoal:   50000,
			PledgedAmount: 55000,
			BackersCount:  2,
		})

		require.Len(t, publisher.messages, 1)
		msg := publisher.messages[0]
		assert.Equal(t, "hushhush.vault_funded", msg.subject)

		var envelope EventEnvelope
		require.NoError(t, json.Unmarshal(msg.data, &envelope))
		assert.NotEmpty(t, envelope.EventID)
		assert.Equal(t, "vault_funded", envelope.EventType)
		assert.Equal(t, "hushhush-api", envelope.SourceService)
		assert.True(t, envelope.Timestamp.Equal(at))

		var payload events.VaultFundedEvent
		require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
		assert.Equal(t, "vault-1", payload.VaultID)
		assert.Equal(t, 55000.0, payload.PledgedAmount)
	})

	t.Run("publish failures are swallowed", func(t *testing.T) {
		publisher := newFakePublisher()
		publisher.err = errors.New("no responders")
		forwarder := NewEventForwarder(publisher)

		assert.NotPanics(t, func() {
			forwarder.Handle(context.Background(), events.PledgeCreatedEvent{PledgeID: "p1"})
		})
		assert.Empty(t, publisher.messages)
	})
}

func TestEventForwarder_Register(t *testing.T) {
	publisher := newFakePublisher()
	bus := events.NewBus()
	NewEventForwarder(publisher).Register(bus)

	bus.Emit(context.Background(), events.UserRegisteredEvent{UserID: "user-1"})

	select {
	case <-publisher.notify:
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.messages, 1)
	assert.Equal(t, "hushhush.user_registered", publisher.messages[0].subject)
}
