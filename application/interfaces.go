package application

import (
	"context"

	"clubledger/application/dto"
)

// TaskScheduler queues background work for the task consumer
type TaskScheduler interface {
	// Schedule enqueues the named task with a JSON encodable payload
	Schedule(ctx context.Context, name string, payload any) error
}

// Notifier delivers member notifications. The application layer does not
// know how they reach the member.
type Notifier interface {
	Notify(ctx context.Context, notification dto.NotificationDTO) error
}

// PaymentGatewayHandler applies payment processor callbacks to the ledger
type PaymentGatewayHandler interface {
	HandleCallback(ctx context.Context, callback dto.PaymentGatewayCallbackDTO) error
}

// TaskHandler executes tasks taken from the queue
type TaskHandler interface {
	HandleTask(ctx context.Context, task dto.TaskDTO) error
}
