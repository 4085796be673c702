package testutil

import (
	"fmt"
	"time"

	"clubledger/domain/entities"
)

// CreateTestUser creates an active test user with a unique email derived from name
func CreateTestUser(name string) *entities.User {
	return &entities.User{
		Name:          name,
		Email:         fmt.Sprintf("%s@example.com", name),
		PasswordHash:  "$2a$04$testhashtesthashtesthashtesthashtesthashtesthashtesth",
		Qualification: entities.DefaultQualification,
		IsActive:      true,
	}
}

// CreateTestMembership creates an active membership for the 2026/27 fiscal year
func CreateTestMembership(userID int64, credits int) *entities.Membership {
	return &entities.Membership{
		UserID:     userID,
		StartDate:  entities.NewDate(2026, time.March, 1),
		ExpiryDate: entities.NewDate(2027, time.February, 28),
		Credits:    credits,
		Status:     entities.MembershipStatusActive,
	}
}

// CreateTestPayment creates a pending online membership payment
func CreateTestPayment(userID int64) *entities.Payment {
	return &entities.Payment{
		UserID:      userID,
		AmountCents: entities.DefaultAnnualMembershipCost,
		Currency:    "EUR",
		Type:        entities.PaymentTypeMembership,
		Method:      entities.PaymentMethodOnline,
		Description: "Annual membership",
	}
}

// CreateTestCreditPayment creates a pending credits payment for quantity credits
func CreateTestCreditPayment(userID int64, quantity int64, method entities.PaymentMethod) *entities.Payment {
	return &entities.Payment{
		UserID:         userID,
		AmountCents:    quantity * entities.DefaultAdditionalShootCost,
		Currency:       "EUR",
		Type:           entities.PaymentTypeCredits,
		Method:         method,
		Description:    fmt.Sprintf("%d shoot credits", quantity),
		CreditQuantity: &quantity,
	}
}

// CreateTestCredit creates a manual ledger row
func CreateTestCredit(userID int64, amount int64) *entities.Credit {
	reason := "test adjustment"
	return &entities.Credit{
		UserID: userID,
		Amount: amount,
		Reason: &reason,
	}
}

// CreateTestTransaction creates a bookkeeping row
func CreateTestTransaction(txType entities.FinancialTransactionType, category string, amount int64, date time.Time) *entities.FinancialTransaction {
	return &entities.FinancialTransaction{
		Type:        txType,
		Date:        date,
		AmountCents: amount,
		Currency:    "EUR",
		Category:    category,
		Description: fmt.Sprintf("%s %s", txType, category),
	}
}
