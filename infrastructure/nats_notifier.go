package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"clubledger/application/dto"

	log "github.com/sirupsen/logrus"
)

const notificationSubjectPrefix = "clubledger.notifications."

// NATSNotifier hands member notifications to whichever mailer consumes them from the bus
type NATSNotifier struct {
	client MessagePublisher
}

// NewNATSNotifier creates a new notifier
func NewNATSNotifier(client MessagePublisher) *NATSNotifier {
	return &NATSNotifier{client: client}
}

// Notify publishes the notification on clubledger.notifications.<kind>
func (n *NATSNotifier) Notify(ctx context.Context, notification dto.NotificationDTO) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := n.client.Publish(ctx, notificationSubjectPrefix+notification.Kind, data); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	log.WithFields(log.Fields{
		"kind":   notification.Kind,
		"userId": notification.UserID,
	}).Debug("Published notification")
	return nil
}
