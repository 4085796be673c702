package infrastructure

import (
	"clubledger/application"
	"clubledger/database"
	"clubledger/domain/interfaces"
	"clubledger/repository"
)

// TestUnitOfWorkFactory creates units of work that share one publisher.
// It lives here so application tests can reach the repository package
// without an import cycle.
type TestUnitOfWorkFactory struct {
	db                     *database.DB
	transactionalPublisher interfaces.TransactionalEventPublisher
}

// NewTestUnitOfWorkFactory creates a new test unit of work factory
func NewTestUnitOfWorkFactory(db *database.DB, transactionalPublisher interfaces.TransactionalEventPublisher) *TestUnitOfWorkFactory {
	return &TestUnitOfWorkFactory{
		db:                     db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Create creates a fresh UnitOfWork
func (f *TestUnitOfWorkFactory) Create() application.UnitOfWork {
	return repository.CreateTestUnitOfWork(f.db, f.transactionalPublisher)
}
