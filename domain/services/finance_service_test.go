package services

import (
	"context"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFinanceService_RecordTransaction(t *testing.T) {
	t.Parallel()

	valid := func() *entities.FinancialTransaction {
		return &entities.FinancialTransaction{
			Type:        entities.FinancialTransactionExpense,
			Date:        TestToday.Add(13 * time.Hour),
			AmountCents: 4599,
			Category:    entities.ExpenseCategoryVenueHire,
			Description: "Hall rental June",
		}
	}

	tests := []struct {
		name    string
		modify  func(*entities.FinancialTransaction)
		wantErr bool
	}{
		{name: "valid expense", modify: func(*entities.FinancialTransaction) {}},
		{name: "income category on expense", modify: func(ft *entities.FinancialTransaction) { ft.Category = entities.IncomeCategoryDonations }, wantErr: true},
		{name: "unknown type", modify: func(ft *entities.FinancialTransaction) { ft.Type = "transfer" }, wantErr: true},
		{name: "zero amount", modify: func(ft *entities.FinancialTransaction) { ft.AmountCents = 0 }, wantErr: true},
		{name: "missing description", modify: func(ft *entities.FinancialTransaction) { ft.Description = " " }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := NewTestMocks()
			ft := valid()
			tt.modify(ft)
			if !tt.wantErr {
				mocks.TransactionRepo.On("Create", mock.Anything, ft).Return(nil)
			}

			err := NewFinanceService(mocks.TransactionRepo, "EUR").RecordTransaction(context.Background(), ft)

			if tt.wantErr {
				assert.True(t, errs.IsValidation(err), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "EUR", ft.Currency)
				assert.Equal(t, TestToday, ft.Date)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestFinanceService_RecordOffset(t *testing.T) {
	t.Parallel()

	mocks := NewTestMocks()
	source := entities.TransactionSourceSumUp
	original := &entities.FinancialTransaction{
		ID: 12, Type: entities.FinancialTransactionIncome, Date: TestToday, AmountCents: 10000,
		Currency: "EUR", Category: entities.IncomeCategoryMembershipFees, Description: "Payment #1", Source: &source,
	}
	mocks.TransactionRepo.On("GetByID", mock.Anything, int64(12)).Return(original, nil)
	mocks.TransactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(ft *entities.FinancialTransaction) bool {
		return ft.Type == entities.FinancialTransactionExpense && ft.AmountCents == 10000 &&
			ft.Category == entities.IncomeCategoryMembershipFees && *ft.CreatedByID == TestAdminID
	})).Return(nil)

	offset, err := NewFinanceService(mocks.TransactionRepo, "EUR").RecordOffset(context.Background(), 12, int64Ptr(TestAdminID), "refunded")

	require.NoError(t, err)
	assert.Contains(t, offset.Description, "refunded")
	assert.Equal(t, -original.SignedAmount(), offset.SignedAmount())
	mocks.AssertAllExpectations(t)
}

func TestFinanceService_GenerateStatement(t *testing.T) {
	t.Parallel()

	from := entities.NewDate(2026, time.March, 1)
	to := entities.NewDate(2027, time.February, 28)

	mocks := NewTestMocks()
	mocks.TransactionRepo.On("SumByCategory", mock.Anything, from, to).Return([]*entities.CategoryTotal{
		{Type: entities.FinancialTransactionIncome, Category: entities.IncomeCategoryMembershipFees, AmountCents: 30000, Count: 3},
		{Type: entities.FinancialTransactionIncome, Category: entities.IncomeCategoryShootFees, AmountCents: 2500, Count: 2},
		{Type: entities.FinancialTransactionExpense, Category: entities.ExpenseCategoryPaymentProcessingFees, AmountCents: 450, Count: 2},
		// An offset of one membership fee
		{Type: entities.FinancialTransactionExpense, Category: entities.IncomeCategoryMembershipFees, AmountCents: 10000, Count: 1},
	}, nil)
	mocks.TransactionRepo.On("ListBetween", mock.Anything, from, to).Return([]*entities.FinancialTransaction{}, nil)

	statement, err := NewFinanceService(mocks.TransactionRepo, "EUR").GenerateStatement(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(22500), statement.TotalIncome)
	assert.Equal(t, int64(450), statement.TotalExpense)
	assert.Equal(t, int64(22050), statement.Net)
	assert.Equal(t, int64(20000), statement.IncomeByCategory[entities.IncomeCategoryMembershipFees])
	assert.Equal(t, int64(450), statement.ExpenseByCategory[entities.ExpenseCategoryPaymentProcessingFees])
	mocks.AssertAllExpectations(t)
}

func TestFinanceService_GenerateStatement_InvertedRange(t *testing.T) {
	t.Parallel()

	mocks := NewTestMocks()
	_, err := NewFinanceService(mocks.TransactionRepo, "EUR").GenerateStatement(context.Background(), TestToday, TestToday.AddDate(0, 0, -1))

	assert.True(t, errs.IsValidation(err))
}

func TestFinanceService_RecordVisitorFee(t *testing.T) {
	t.Parallel()

	visitor := &entities.ShootVisitor{ID: 1, ShootID: TestShootID, Name: "Guest", Club: "Riverside"}

	t.Run("books the configured fee", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		mocks.TransactionRepo.On("Create", mock.Anything, mock.MatchedBy(func(ft *entities.FinancialTransaction) bool {
			return ft.AmountCents == entities.DefaultVisitorShootFee &&
				ft.Category == entities.IncomeCategoryShootFees &&
				*ft.Source == entities.TransactionSourceVisitor &&
				ft.Description == "Visitor fee: Guest (Riverside)"
		})).Return(nil)

		ft, err := NewFinanceService(mocks.TransactionRepo, "EUR").RecordVisitorFee(context.Background(), visitor, testSettings(), TestToday, nil)

		require.NoError(t, err)
		assert.NotNil(t, ft)
		mocks.AssertAllExpectations(t)
	})

	t.Run("free visits book nothing", func(t *testing.T) {
		t.Parallel()
		mocks := NewTestMocks()
		settings := testSettings()
		settings.VisitorShootFee = 0

		ft, err := NewFinanceService(mocks.TransactionRepo, "EUR").RecordVisitorFee(context.Background(), visitor, settings, TestToday, nil)

		require.NoError(t, err)
		assert.Nil(t, ft)
		mocks.TransactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
