package services

import (
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/events"
	"clubledger/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestUserID    = int64(100)
	TestAdminID   = int64(900)
	TestPaymentID = int64(42)
	TestShootID   = int64(7)
)

// TestToday is the fixed "now" used by date-driven tests
var TestToday = entities.NewDate(2026, time.June, 10)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	UserRepo        *testhelpers.MockUserRepository
	SettingsRepo    *testhelpers.MockSettingsRepository
	MembershipRepo  *testhelpers.MockMembershipRepository
	PaymentRepo     *testhelpers.MockPaymentRepository
	CreditRepo      *testhelpers.MockCreditRepository
	RBACRepo        *testhelpers.MockRBACRepository
	ShootRepo       *testhelpers.MockShootRepository
	TransactionRepo *testhelpers.MockFinancialTransactionRepository
	ContentRepo     *testhelpers.MockContentRepository
	EventPublisher  *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		UserRepo:        &testhelpers.MockUserRepository{},
		SettingsRepo:    &testhelpers.MockSettingsRepository{},
		MembershipRepo:  &testhelpers.MockMembershipRepository{},
		PaymentRepo:     &testhelpers.MockPaymentRepository{},
		CreditRepo:      &testhelpers.MockCreditRepository{},
		RBACRepo:        &testhelpers.MockRBACRepository{},
		ShootRepo:       &testhelpers.MockShootRepository{},
		TransactionRepo: &testhelpers.MockFinancialTransactionRepository{},
		ContentRepo:     &testhelpers.MockContentRepository{},
		EventPublisher:  &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.SettingsRepo.AssertExpectations(t)
	m.MembershipRepo.AssertExpectations(t)
	m.PaymentRepo.AssertExpectations(t)
	m.CreditRepo.AssertExpectations(t)
	m.RBACRepo.AssertExpectations(t)
	m.ShootRepo.AssertExpectations(t)
	m.TransactionRepo.AssertExpectations(t)
	m.ContentRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// ExpectSettings makes the settings repository return s
func (m *TestMocks) ExpectSettings(s *entities.ApplicationSettings) {
	m.SettingsRepo.On("Get", mock.Anything).Return(s, nil)
}

// ExpectUser makes the user repository return user for its ID
func (m *TestMocks) ExpectUser(user *entities.User) {
	m.UserRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
}

// ExpectEventPublish sets up event publisher mock expectations
func (m *TestMocks) ExpectEventPublish(eventType events.EventType) {
	m.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

// NewReconciliation builds a reconciliation engine over the mocks with the real finance service
func (m *TestMocks) NewReconciliation() *reconciliationService {
	settings := NewSettingsService(m.SettingsRepo, m.EventPublisher)
	finance := NewFinanceService(m.TransactionRepo, "EUR")
	return NewReconciliationService(
		m.PaymentRepo, m.MembershipRepo, m.CreditRepo, m.UserRepo, m.RBACRepo,
		settings, finance, nil, FixedClock{Time: TestToday.Add(15 * time.Hour)}, m.EventPublisher,
	).(*reconciliationService)
}

func testSettings() *entities.ApplicationSettings {
	return entities.DefaultApplicationSettings()
}

func testUser(id int64) *entities.User {
	return &entities.User{ID: id, Name: "Member", Email: "member@example.com", IsActive: true}
}

func pendingPayment(paymentType entities.PaymentType, method entities.PaymentMethod, amount int64) *entities.Payment {
	return &entities.Payment{
		ID:          TestPaymentID,
		UserID:      TestUserID,
		AmountCents: amount,
		Currency:    "EUR",
		Type:        paymentType,
		Method:      method,
		Status:      entities.PaymentStatusPending,
		Description: "test payment",
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
