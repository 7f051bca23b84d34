package infrastructure

import "hushhush/events"

const subjectPrefix = "hushhush."

// SubjectFor returns the NATS subject an event type is published on
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// AllSubjects returns every subject the forwarder publishes to
func AllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, SubjectFor(eventType))
	}
	return subjects
}
