package testhelpers

import (
	"context"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) ListActive(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*entities.ApplicationSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApplicationSettings), args.Error(1)
}

func (m *MockSettingsRepository) InsertDefaults(ctx context.Context, defaults *entities.ApplicationSettings) error {
	args := m.Called(ctx, defaults)
	return args.Error(0)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *entities.ApplicationSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Membership), args.Error(1)
}

func (m *MockMembershipRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *entities.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpdatePeriod(ctx context.Context, membership *entities.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) ConsumeAllowance(ctx context.Context, userID int64, today time.Time) (bool, error) {
	args := m.Called(ctx, userID, today)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) ExpireBefore(ctx context.Context, today time.Time) ([]*entities.Membership, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Membership), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByExternalTransactionID(ctx context.Context, externalTransactionID string) (*entities.Payment, error) {
	args := m.Called(ctx, externalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkCompleted(ctx context.Context, id int64, externalTransactionID, processor string) (bool, error) {
	args := m.Called(ctx, id, externalTransactionID, processor)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Payment, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPending(ctx context.Context, method entities.PaymentMethod) ([]*entities.Payment, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

// MockCreditRepository is a mock implementation of CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *entities.Credit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockCreditRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditRepository) LockUserLedger(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCreditRepository) GetByPaymentID(ctx context.Context, paymentID int64) (*entities.Credit, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Credit, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListLowStanding(ctx context.Context, threshold int64, today time.Time) ([]*entities.CreditStanding, error) {
	args := m.Called(ctx, threshold, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditStanding), args.Error(1)
}

// MockRBACRepository is a mock implementation of RBACRepository
type MockRBACRepository struct {
	mock.Mock
}

func (m *MockRBACRepository) GetRoleByName(ctx context.Context, name string) (*entities.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Role), args.Error(1)
}

func (m *MockRBACRepository) CreateRole(ctx context.Context, role *entities.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRBACRepository) DeleteRole(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) ListRoles(ctx context.Context) ([]*entities.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Role), args.Error(1)
}

func (m *MockRBACRepository) GetPermissionByName(ctx context.Context, name string) (*entities.Permission, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Permission), args.Error(1)
}

func (m *MockRBACRepository) CreatePermission(ctx context.Context, permission *entities.Permission) error {
	args := m.Called(ctx, permission)
	return args.Error(0)
}

func (m *MockRBACRepository) DeletePermission(ctx context.Context, permissionID int64) (bool, error) {
	args := m.Called(ctx, permissionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) AssignRole(ctx context.Context, userID, roleID int64) (bool, error) {
	args := m.Called(ctx, userID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) RevokeRole(ctx context.Context, userID, roleID int64) (bool, error) {
	args := m.Called(ctx, userID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) GrantPermission(ctx context.Context, roleID, permissionID int64) (bool, error) {
	args := m.Called(ctx, roleID, permissionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) RevokePermission(ctx context.Context, roleID, permissionID int64) (bool, error) {
	args := m.Called(ctx, roleID, permissionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error) {
	args := m.Called(ctx, userID, permissionName)
	return args.Bool(0), args.Error(1)
}

func (m *MockRBACRepository) GetUserPermissions(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRBACRepository) GetUserRoles(ctx context.Context, userID int64) ([]*entities.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Role), args.Error(1)
}

// MockShootRepository is a mock implementation of ShootRepository
type MockShootRepository struct {
	mock.Mock
}

func (m *MockShootRepository) Create(ctx context.Context, shoot *entities.Shoot) error {
	args := m.Called(ctx, shoot)
	return args.Error(0)
}

func (m *MockShootRepository) GetByID(ctx context.Context, id int64) (*entities.Shoot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shoot), args.Error(1)
}

func (m *MockShootRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.Shoot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Shoot), args.Error(1)
}

func (m *MockShootRepository) AddAttendee(ctx context.Context, shootID, userID int64) (bool, error) {
	args := m.Called(ctx, shootID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShootRepository) ListAttendees(ctx context.Context, shootID int64) ([]*entities.UserShoot, error) {
	args := m.Called(ctx, shootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserShoot), args.Error(1)
}

func (m *MockShootRepository) AddVisitor(ctx context.Context, visitor *entities.ShootVisitor) error {
	args := m.Called(ctx, visitor)
	return args.Error(0)
}

func (m *MockShootRepository) ListVisitors(ctx context.Context, shootID int64) ([]*entities.ShootVisitor, error) {
	args := m.Called(ctx, shootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShootVisitor), args.Error(1)
}

// MockFinancialTransactionRepository is a mock implementation of FinancialTransactionRepository
type MockFinancialTransactionRepository struct {
	mock.Mock
}

func (m *MockFinancialTransactionRepository) Create(ctx context.Context, transaction *entities.FinancialTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockFinancialTransactionRepository) GetByID(ctx context.Context, id int64) (*entities.FinancialTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.FinancialTransaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FinancialTransaction), args.Error(1)
}

func (m *MockFinancialTransactionRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]*entities.CategoryTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CategoryTotal), args.Error(1)
}

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreateNews(ctx context.Context, news *entities.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

func (m *MockContentRepository) ListPublishedNews(ctx context.Context, asOf time.Time, limit int) ([]*entities.News, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.News), args.Error(1)
}

func (m *MockContentRepository) CreateEvent(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockContentRepository) ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*entities.Event, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Event), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}
