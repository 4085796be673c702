package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreditServiceForTest(m *TestMocks) *creditService {
	return NewCreditService(m.CreditRepo, m.MembershipRepo, m.UserRepo, m.EventPublisher).(*creditService)
}

func TestCreditService_DeductForAttendance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setupMock     func(m *TestMocks)
		wantAllowance bool
		wantBalance   int64
		wantErr       func(error) bool
	}{
		{
			name: "allowance is used before credits",
			setupMock: func(m *TestMocks) {
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(nil)
				m.MembershipRepo.On("ConsumeAllowance", mock.Anything, TestUserID, TestToday).Return(true, nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(4), nil)
			},
			wantAllowance: true,
			wantBalance:   4,
		},
		{
			name: "no allowance takes one purchased credit",
			setupMock: func(m *TestMocks) {
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(nil)
				m.MembershipRepo.On("ConsumeAllowance", mock.Anything, TestUserID, TestToday).Return(false, nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(2), nil).Once()
				m.CreditRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Credit) bool {
					return c.Amount == -1 && c.PaymentID == nil && c.AdjustedByID == nil &&
						*c.Reason == entities.CreditReasonShootAttendance
				})).Return(nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(1), nil).Once()
				m.ExpectEventPublish(events.EventTypeCreditChanged)
			},
			wantBalance: 1,
		},
		{
			name: "zero balance and no allowance",
			setupMock: func(m *TestMocks) {
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(nil)
				m.MembershipRepo.On("ConsumeAllowance", mock.Anything, TestUserID, TestToday).Return(false, nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(0), nil)
			},
			wantErr: errs.IsInsufficientCredits,
		},
		{
			name: "negative balance after an adjustment",
			setupMock: func(m *TestMocks) {
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(nil)
				m.MembershipRepo.On("ConsumeAllowance", mock.Anything, TestUserID, TestToday).Return(false, nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(-2), nil)
			},
			wantErr: errs.IsInsufficientCredits,
		},
		{
			name: "lock failure",
			setupMock: func(m *TestMocks) {
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(errors.New("deadlock detected"))
			},
			wantErr: func(err error) bool { return !errs.IsDomainError(err) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := NewTestMocks()
			tt.setupMock(mocks)

			service := newCreditServiceForTest(mocks)
			result, err := service.DeductForAttendance(context.Background(), TestUserID, TestShootID, TestToday.Add(18*time.Hour))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Nil(t, result)
				mocks.CreditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAllowance, result.FromAllowance)
				assert.Equal(t, tt.wantBalance, result.Balance)
				if tt.wantAllowance {
					assert.Nil(t, result.Credit)
				} else {
					require.NotNil(t, result.Credit)
					assert.Equal(t, int64(-1), result.Credit.Amount)
				}
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestCreditService_Adjust(t *testing.T) {
	t.Parallel()

	member := testUser(TestUserID)
	admin := &entities.User{ID: TestAdminID, Name: "Admin", IsActive: true}

	tests := []struct {
		name      string
		amount    int64
		reason    string
		setupMock func(m *TestMocks)
		wantErr   func(error) bool
	}{
		{
			name:   "negative adjustment may overdraw",
			amount: -3,
			reason: "correction",
			setupMock: func(m *TestMocks) {
				m.ExpectUser(member)
				m.ExpectUser(admin)
				m.CreditRepo.On("LockUserLedger", mock.Anything, TestUserID).Return(nil)
				m.CreditRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Credit) bool {
					return c.Amount == -3 && *c.AdjustedByID == TestAdminID && *c.Reason == "correction"
				})).Return(nil)
				m.CreditRepo.On("GetBalance", mock.Anything, TestUserID).Return(int64(-1), nil)
				m.ExpectEventPublish(events.EventTypeCreditChanged)
			},
		},
		{
			name:      "zero amount",
			amount:    0,
			reason:    "nothing",
			setupMock: func(m *TestMocks) {},
			wantErr:   errs.IsInvariantViolation,
		},
		{
			name:      "blank reason",
			amount:    2,
			reason:    "   ",
			setupMock: func(m *TestMocks) {},
			wantErr:   errs.IsInvariantViolation,
		},
		{
			name:   "unknown admin",
			amount: 2,
			reason: "gift",
			setupMock: func(m *TestMocks) {
				m.ExpectUser(member)
				m.UserRepo.On("GetByID", mock.Anything, TestAdminID).Return(nil, nil)
			},
			wantErr: errs.IsNotFound,
		},
		{
			name:   "unknown member",
			amount: 2,
			reason: "gift",
			setupMock: func(m *TestMocks) {
				m.UserRepo.On("GetByID", mock.Anything, TestUserID).Return(nil, nil)
			},
			wantErr: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := NewTestMocks()
			tt.setupMock(mocks)

			credit, err := newCreditServiceForTest(mocks).Adjust(context.Background(), TestUserID, tt.amount, TestAdminID, tt.reason)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				mocks.CreditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.True(t, credit.IsManualAdjustment())
				assert.Equal(t, tt.amount, credit.Amount)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestCreditService_HistoryAndLowStanding(t *testing.T) {
	t.Parallel()

	mocks := NewTestMocks()
	history := []*entities.Credit{{ID: 1, UserID: TestUserID, Amount: 5}}
	standings := []*entities.CreditStanding{{UserID: TestUserID, Allowance: 1, Balance: 1}}

	mocks.CreditRepo.On("ListByUser", mock.Anything, TestUserID, defaultCreditHistoryLimit).Return(history, nil)
	mocks.CreditRepo.On("ListLowStanding", mock.Anything, int64(3), TestToday).Return(standings, nil)

	service := newCreditServiceForTest(mocks)

	gotHistory, err := service.History(context.Background(), TestUserID, 0)
	require.NoError(t, err)
	assert.Equal(t, history, gotHistory)

	gotStandings, err := service.LowStanding(context.Background(), 3, TestToday.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), gotStandings[0].Total())

	mocks.AssertAllExpectations(t)
}
