package infrastructure

import (
	"strings"
	"testing"

	"clubledger/domain/events"

	"github.com/stretchr/testify/assert"
)

type unmappedEvent struct{}

func (unmappedEvent) Type() events.EventType { return "mystery" }

func TestEventSubjectMapper(t *testing.T) {
	t.Parallel()

	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.PaymentCompletedEvent{}, "clubledger.payments.completed"},
		{events.PaymentFailedEvent{}, "clubledger.payments.failed"},
		{events.PaymentCancelledEvent{}, "clubledger.payments.cancelled"},
		{events.MembershipActivatedEvent{}, "clubledger.memberships.activated"},
		{events.MembershipExpiredEvent{}, "clubledger.memberships.expired"},
		{events.CreditChangedEvent{}, "clubledger.credits.changed"},
		{events.RoleAssignmentEvent{}, "clubledger.access.role_assignment"},
		{events.SettingsUpdatedEvent{}, "clubledger.settings.updated"},
		{events.UserRegisteredEvent{}, "clubledger.users.registered"},
		{unmappedEvent{}, "clubledger.unknown.mystery"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			subject := mapper.MapEventToSubject(tt.event)
			assert.Equal(t, tt.subject, subject)
			assert.True(t, strings.HasPrefix(subject, "clubledger."), "covered by the stream filter")
		})
	}

	assert.Equal(t, events.EventTypeMembershipExpired, mapper.MapSubjectToEventType("clubledger.memberships.expired"))
	assert.Equal(t, []string{"clubledger.>"}, mapper.GetAllSubjects())
}
