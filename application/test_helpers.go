package application

import (
	"context"
	"sync"

	"clubledger/application/dto"
)

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []dto.NotificationDTO
	Error         error
}

func (m *MockNotifier) Notify(ctx context.Context, notification dto.NotificationDTO) error {
	if m.Error != nil {
		return m.Error
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, notification)
	return nil
}

// ScheduledTask records one MockTaskScheduler call
type ScheduledTask struct {
	Name    string
	Payload any
}

// MockTaskScheduler implements TaskScheduler for testing
type MockTaskScheduler struct {
	mu    sync.Mutex
	Tasks []ScheduledTask
	Error error
}

func (m *MockTaskScheduler) Schedule(ctx context.Context, name string, payload any) error {
	if m.Error != nil {
		return m.Error
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks = append(m.Tasks, ScheduledTask{Name: name, Payload: payload})
	return nil
}
