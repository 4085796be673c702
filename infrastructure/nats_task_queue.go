package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubledger/application"
	"clubledger/application/dto"
	"clubledger/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const taskSubjectPrefix = "tasks."

// MessageSubscriber is the subset of NATSClient used to consume
type MessageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// NATSTaskQueue schedules and consumes background tasks over JetStream
type NATSTaskQueue struct {
	client MessagePublisher
}

// NewNATSTaskQueue creates a new task queue
func NewNATSTaskQueue(client MessagePublisher) *NATSTaskQueue {
	return &NATSTaskQueue{client: client}
}

// Schedule publishes the named task to tasks.<name>
func (q *NATSTaskQueue) Schedule(ctx context.Context, name string, payload any) error {
	task := dto.TaskDTO{
		ID:          uuid.New().String(),
		Name:        name,
		ScheduledAt: time.Now().UTC(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal task payload: %w", err)
		}
		task.Payload = raw
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.client.Publish(ctx, taskSubjectPrefix+name, data); err != nil {
		return fmt.Errorf("failed to schedule task %s: %w", name, err)
	}

	log.WithFields(log.Fields{
		"taskId":   task.ID,
		"taskName": name,
	}).Debug("Scheduled task")
	return nil
}

// StartConsumer subscribes handler to every task subject
func (q *NATSTaskQueue) StartConsumer(ctx context.Context, subscriber MessageSubscriber, handler application.TaskHandler) error {
	return subscriber.Subscribe(taskSubjectPrefix+">", func(data []byte) error {
		var task dto.TaskDTO
		if err := json.Unmarshal(data, &task); err != nil {
			// Redelivery cannot fix a malformed message
			log.WithError(err).Error("Dropping malformed task")
			return nil
		}

		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordNATSMessageReceived(taskSubjectPrefix + task.Name)
		}

		return handler.HandleTask(ctx, task)
	})
}

// EnsureTaskStream ensures the task stream exists
func EnsureTaskStream(client *NATSClient) error {
	return client.EnsureStream(TaskStream, "Club ledger background tasks", []string{taskSubjectPrefix + ">"}, 24*time.Hour)
}
