package repository

import (
	"context"
	"fmt"

	"clubledger/application"
	"clubledger/database"
	"clubledger/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	settingsRepo           interfaces.SettingsRepository
	membershipRepo         interfaces.MembershipRepository
	paymentRepo            interfaces.PaymentRepository
	creditRepo             interfaces.CreditRepository
	rbacRepo               interfaces.RBACRepository
	shootRepo              interfaces.ShootRepository
	transactionRepo        interfaces.FinancialTransactionRepository
	contentRepo            interfaces.ContentRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// CreateWithPublisher creates a new UnitOfWork that buffers events in transactionalPublisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = NewUserRepositoryScoped(tx)
	u.settingsRepo = NewSettingsRepositoryScoped(tx)
	u.membershipRepo = NewMembershipRepositoryScoped(tx)
	u.paymentRepo = NewPaymentRepositoryScoped(tx)
	u.creditRepo = NewCreditRepositoryScoped(tx)
	u.rbacRepo = NewRBACRepositoryScoped(tx)
	u.shootRepo = NewShootRepositoryScoped(tx)
	u.transactionRepo = NewFinancialTransactionRepositoryScoped(tx)
	u.contentRepo = NewContentRepositoryScoped(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events only leave the process once the ledger change is durable
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func notStarted() {
	panic("unit of work not started - call Begin() first")
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		notStarted()
	}
	return u.userRepo
}

// SettingsRepository returns the settings repository for this unit of work
func (u *unitOfWork) SettingsRepository() interfaces.SettingsRepository {
	if u.settingsRepo == nil {
		notStarted()
	}
	return u.settingsRepo
}

// MembershipRepository returns the membership repository for this unit of work
func (u *unitOfWork) MembershipRepository() interfaces.MembershipRepository {
	if u.membershipRepo == nil {
		notStarted()
	}
	return u.membershipRepo
}

// PaymentRepository returns the payment repository for this unit of work
func (u *unitOfWork) PaymentRepository() interfaces.PaymentRepository {
	if u.paymentRepo == nil {
		notStarted()
	}
	return u.paymentRepo
}

// CreditRepository returns the credit ledger repository for this unit of work
func (u *unitOfWork) CreditRepository() interfaces.CreditRepository {
	if u.creditRepo == nil {
		notStarted()
	}
	return u.creditRepo
}

// RBACRepository returns the roles and permissions repository for this unit of work
func (u *unitOfWork) RBACRepository() interfaces.RBACRepository {
	if u.rbacRepo == nil {
		notStarted()
	}
	return u.rbacRepo
}

// ShootRepository returns the shoot repository for this unit of work
func (u *unitOfWork) ShootRepository() interfaces.ShootRepository {
	if u.shootRepo == nil {
		notStarted()
	}
	return u.shootRepo
}

// FinancialTransactionRepository returns the bookkeeping repository for this unit of work
func (u *unitOfWork) FinancialTransactionRepository() interfaces.FinancialTransactionRepository {
	if u.transactionRepo == nil {
		notStarted()
	}
	return u.transactionRepo
}

// ContentRepository returns the news and events repository for this unit of work
func (u *unitOfWork) ContentRepository() interfaces.ContentRepository {
	if u.contentRepo == nil {
		notStarted()
	}
	return u.contentRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work has no event publisher")
	}
	return u.transactionalPublisher
}
