package infrastructure

import (
	"fmt"

	"clubledger/domain/events"
)

const subjectPrefix = "clubledger."

var eventSubjects = map[events.EventType]string{
	events.EventTypePaymentCompleted:    subjectPrefix + "payments.completed",
	events.EventTypePaymentFailed:       subjectPrefix + "payments.failed",
	events.EventTypePaymentCancelled:    subjectPrefix + "payments.cancelled",
	events.EventTypeMembershipActivated: subjectPrefix + "memberships.activated",
	events.EventTypeMembershipExpired:   subjectPrefix + "memberships.expired",
	events.EventTypeCreditChanged:       subjectPrefix + "credits.changed",
	events.EventTypeRoleAssignment:      subjectPrefix + "access.role_assignment",
	events.EventTypeSettingsUpdated:     subjectPrefix + "settings.updated",
	events.EventTypeUserRegistered:      subjectPrefix + "users.registered",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("%sunknown.%s", subjectPrefix, event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range eventSubjects {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns the subject filter covering everything this service publishes
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{subjectPrefix + ">"}
}
