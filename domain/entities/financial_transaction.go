package entities

import "time"

// FinancialTransactionType separates club income from expenses
type FinancialTransactionType string

const (
	FinancialTransactionIncome  FinancialTransactionType = "income"
	FinancialTransactionExpense FinancialTransactionType = "expense"
)

// Opposite returns the type used for an offsetting correction row
func (t FinancialTransactionType) Opposite() FinancialTransactionType {
	if t == FinancialTransactionIncome {
		return FinancialTransactionExpense
	}
	return FinancialTransactionIncome
}

// Income categories
const (
	IncomeCategoryMembershipFees = "membership_fees"
	IncomeCategoryShootFees      = "shoot_fees"
	IncomeCategoryEquipmentSales = "equipment_sales"
	IncomeCategoryDonations      = "donations"
	IncomeCategorySponsorship    = "sponsorship"
	IncomeCategoryGrants         = "grants"
	IncomeCategoryFundraising    = "fundraising"
	IncomeCategoryOther          = "other"
)

// Expense categories
const (
	ExpenseCategoryEquipment             = "equipment"
	ExpenseCategoryVenueHire             = "venue_hire"
	ExpenseCategoryInsurance             = "insurance"
	ExpenseCategorySupplies              = "supplies"
	ExpenseCategoryMaintenance           = "maintenance"
	ExpenseCategoryTravel                = "travel"
	ExpenseCategoryAffiliationFees       = "affiliation_fees"
	ExpenseCategoryCoaching              = "coaching"
	ExpenseCategoryPaymentProcessingFees = "payment_processing_fees"
	ExpenseCategoryOther                 = "other"
)

var categoriesByType = map[FinancialTransactionType]map[string]bool{
	FinancialTransactionIncome: {
		IncomeCategoryMembershipFees: true,
		IncomeCategoryShootFees:      true,
		IncomeCategoryEquipmentSales: true,
		IncomeCategoryDonations:      true,
		IncomeCategorySponsorship:    true,
		IncomeCategoryGrants:         true,
		IncomeCategoryFundraising:    true,
		IncomeCategoryOther:          true,
	},
	FinancialTransactionExpense: {
		ExpenseCategoryEquipment:             true,
		ExpenseCategoryVenueHire:             true,
		ExpenseCategoryInsurance:             true,
		ExpenseCategorySupplies:              true,
		ExpenseCategoryMaintenance:           true,
		ExpenseCategoryTravel:                true,
		ExpenseCategoryAffiliationFees:       true,
		ExpenseCategoryCoaching:              true,
		ExpenseCategoryPaymentProcessingFees: true,
		ExpenseCategoryOther:                 true,
	},
}

// IsValidCategory reports whether category belongs to the transaction type
func (t FinancialTransactionType) IsValidCategory(category string) bool {
	return categoriesByType[t][category]
}

// Transaction sources recorded by automatic bookkeeping
const (
	TransactionSourceSumUp   = "SumUp"
	TransactionSourceCash    = "Cash"
	TransactionSourceVisitor = "Visitor"
)

// FinancialTransaction is an append-only club bookkeeping row.
// Corrections are new offsetting rows, never edits.
type FinancialTransaction struct {
	ID               int64                    `db:"id"`
	Type             FinancialTransactionType `db:"transaction_type"`
	Date             time.Time                `db:"transaction_date"`
	AmountCents      int64                    `db:"amount_cents"`
	Currency         string                   `db:"currency"`
	Category         string                   `db:"category"`
	Description      string                   `db:"description"`
	Source           *string                  `db:"source"`
	ReceiptReference *string                  `db:"receipt_reference"`
	CreatedByID      *int64                   `db:"created_by_id"`
	CreatedAt        time.Time                `db:"created_at"`
	UpdatedAt        time.Time                `db:"updated_at"`
}

// SignedAmount returns the amount as it affects the club balance
func (f *FinancialTransaction) SignedAmount() int64 {
	if f.Type == FinancialTransactionExpense {
		return -f.AmountCents
	}
	return f.AmountCents
}

// CategoryTotal is the summed amount of one category in a period
type CategoryTotal struct {
	Type        FinancialTransactionType `db:"transaction_type"`
	Category    string                   `db:"category"`
	AmountCents int64                    `db:"amount_cents"`
	Count       int64                    `db:"count"`
}
