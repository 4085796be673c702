package application

import (
	"context"

	"clubledger/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and publishes buffered events
	Commit() error

	// Rollback rolls back the transaction and drops buffered events
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	SettingsRepository() interfaces.SettingsRepository
	MembershipRepository() interfaces.MembershipRepository
	PaymentRepository() interfaces.PaymentRepository
	CreditRepository() interfaces.CreditRepository
	RBACRepository() interfaces.RBACRepository
	ShootRepository() interfaces.ShootRepository
	FinancialTransactionRepository() interfaces.FinancialTransactionRepository
	ContentRepository() interfaces.ContentRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
