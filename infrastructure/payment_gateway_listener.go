package infrastructure

import (
	"context"
	"encoding/json"

	"clubledger/application"
	"clubledger/application/dto"
	"clubledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// PaymentGatewaySubject carries payment processor callbacks
const PaymentGatewaySubject = "payments.gateway.callback"

// PaymentGatewayListener decodes gateway callbacks from NATS and hands them to the application layer
type PaymentGatewayListener struct {
	handler application.PaymentGatewayHandler
}

// NewPaymentGatewayListener creates a new payment gateway listener
func NewPaymentGatewayListener(handler application.PaymentGatewayHandler) *PaymentGatewayListener {
	return &PaymentGatewayListener{handler: handler}
}

// HandleMessage processes one callback message
func (l *PaymentGatewayListener) HandleMessage(ctx context.Context, data []byte) error {
	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordNATSMessageReceived(PaymentGatewaySubject)
	}

	var callback dto.PaymentGatewayCallbackDTO
	if err := json.Unmarshal(data, &callback); err != nil {
		log.WithError(err).Error("Dropping malformed payment gateway callback")
		return nil
	}

	if callback.PaymentID <= 0 {
		log.WithField("status", callback.Status).Warn("Dropping payment gateway callback without payment id")
		return nil
	}

	return l.handler.HandleCallback(ctx, callback)
}

// Start subscribes the listener to the gateway subject
func (l *PaymentGatewayListener) Start(ctx context.Context, subscriber MessageSubscriber) error {
	return subscriber.Subscribe(PaymentGatewaySubject, func(data []byte) error {
		return l.HandleMessage(ctx, data)
	})
}
