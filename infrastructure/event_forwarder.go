// Package infrastructure forwards committed domain events to NATS JetStream.
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hushhush/events"
	"hushhush/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	sourceService  = "hushhush-api"
	publishTimeout = 5 * time.Second
)

// MessagePublisher sends raw bytes to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps an event payload on the wire
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// EventForwarder republishes every bus event to NATS
type EventForwarder struct {
	publisher MessagePublisher
	now       func() time.Time
}

// NewEventForwarder creates a forwarder
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{publisher: publisher, now: time.Now}
}

// Register subscribes the forwarder to every event on bus
func (f *EventForwarder) Register(bus *events.Bus) {
	bus.SubscribeAll(f.Handle)
}

// Handle forwards one event. Failures are logged; the bus has already delivered it locally.
func (f *EventForwarder) Handle(ctx context.Context, event events.Event) {
	if err := f.forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event to NATS")
	}
}

func (f *EventForwarder) forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return err
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(event.Type()))
	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
