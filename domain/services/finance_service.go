package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/interfaces"
	"clubledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

type financeService struct {
	transactionRepo interfaces.FinancialTransactionRepository
	currency        string
}

// NewFinanceService creates the club bookkeeping service
func NewFinanceService(transactionRepo interfaces.FinancialTransactionRepository, currency string) interfaces.FinanceService {
	if currency == "" {
		currency = "EUR"
	}
	return &financeService{
		transactionRepo: transactionRepo,
		currency:        currency,
	}
}

// RecordTransaction validates and appends a manual bookkeeping row
func (s *financeService) RecordTransaction(ctx context.Context, transaction *entities.FinancialTransaction) error {
	if err := validateTransaction(transaction); err != nil {
		return err
	}
	if transaction.Currency == "" {
		transaction.Currency = s.currency
	}
	transaction.Date = entities.DateOnly(transaction.Date)

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return fmt.Errorf("failed to record financial transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"transactionID": transaction.ID,
		"type":          transaction.Type,
		"category":      transaction.Category,
		"amountCents":   transaction.AmountCents,
	}).Info("Financial transaction recorded")

	return nil
}

// RecordOffset appends a row of the opposite type that cancels an earlier
// one. The offset keeps the original category so statements can net it.
func (s *financeService) RecordOffset(ctx context.Context, originalID int64, createdByID *int64, reason string) (*entities.FinancialTransaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation("reason", "offset requires a reason")
	}

	original, err := s.transactionRepo.GetByID(ctx, originalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial transaction: %w", err)
	}
	if original == nil {
		return nil, errs.NotFound("financial transaction", originalID)
	}

	offset := &entities.FinancialTransaction{
		Type:             original.Type.Opposite(),
		Date:             original.Date,
		AmountCents:      original.AmountCents,
		Currency:         original.Currency,
		Category:         original.Category,
		Description:      fmt.Sprintf("Offset of #%d: %s", original.ID, reason),
		Source:           original.Source,
		ReceiptReference: original.ReceiptReference,
		CreatedByID:      createdByID,
	}
	if err := s.transactionRepo.Create(ctx, offset); err != nil {
		return nil, fmt.Errorf("failed to record offset: %w", err)
	}

	log.WithFields(log.Fields{
		"originalID": originalID,
		"offsetID":   offset.ID,
		"reason":     reason,
	}).Info("Financial transaction offset")

	return offset, nil
}

// RecordPaymentIncome books a completed payment as income and, for online
// payments with a configured processor fee, the fee as an expense
func (s *financeService) RecordPaymentIncome(ctx context.Context, payment *entities.Payment, settings *entities.ApplicationSettings, date time.Time) ([]*entities.FinancialTransaction, error) {
	category := entities.IncomeCategoryMembershipFees
	if payment.Type == entities.PaymentTypeCredits {
		category = entities.IncomeCategoryShootFees
	}

	source := entities.TransactionSourceCash
	if payment.Method == entities.PaymentMethodOnline {
		source = entities.TransactionSourceSumUp
	}

	currency := payment.Currency
	if currency == "" {
		currency = s.currency
	}

	var reference *string
	if payment.ExternalTransactionID != nil {
		reference = utils.StringPtr(*payment.ExternalTransactionID)
	}

	income := &entities.FinancialTransaction{
		Type:             entities.FinancialTransactionIncome,
		Date:             entities.DateOnly(date),
		AmountCents:      payment.AmountCents,
		Currency:         currency,
		Category:         category,
		Description:      fmt.Sprintf("Payment #%d: %s", payment.ID, payment.Description),
		Source:           &source,
		ReceiptReference: reference,
	}
	if err := s.transactionRepo.Create(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to record payment income: %w", err)
	}
	recorded := []*entities.FinancialTransaction{income}

	if payment.Method != entities.PaymentMethodOnline {
		return recorded, nil
	}
	fee := settings.ProcessingFee(payment.AmountCents)
	if fee <= 0 {
		return recorded, nil
	}

	expense := &entities.FinancialTransaction{
		Type:             entities.FinancialTransactionExpense,
		Date:             entities.DateOnly(date),
		AmountCents:      fee,
		Currency:         currency,
		Category:         entities.ExpenseCategoryPaymentProcessingFees,
		Description:      fmt.Sprintf("Processor fee for payment #%d", payment.ID),
		Source:           &source,
		ReceiptReference: reference,
	}
	if err := s.transactionRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to record processor fee: %w", err)
	}

	return append(recorded, expense), nil
}

// RecordVisitorFee books the visitor fee for a walk-in. Nothing is booked
// when the fee is zero.
func (s *financeService) RecordVisitorFee(ctx context.Context, visitor *entities.ShootVisitor, settings *entities.ApplicationSettings, date time.Time, createdByID *int64) (*entities.FinancialTransaction, error) {
	if settings.VisitorShootFee <= 0 {
		return nil, nil
	}

	description := "Visitor fee: " + visitor.Name
	if visitor.Club != "" {
		description += " (" + visitor.Club + ")"
	}
	source := entities.TransactionSourceVisitor

	transaction := &entities.FinancialTransaction{
		Type:        entities.FinancialTransactionIncome,
		Date:        entities.DateOnly(date),
		AmountCents: settings.VisitorShootFee,
		Currency:    s.currency,
		Category:    entities.IncomeCategoryShootFees,
		Description: description,
		Source:      &source,
		CreatedByID: createdByID,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to record visitor fee: %w", err)
	}
	return transaction, nil
}

// GenerateStatement totals bookkeeping rows dated within [from, to]. Offset
// rows carry a category of the opposite type and are netted against it.
func (s *financeService) GenerateStatement(ctx context.Context, from, to time.Time) (*interfaces.Statement, error) {
	from, to = entities.DateOnly(from), entities.DateOnly(to)
	if to.Before(from) {
		return nil, errs.Validation("to", "statement end %s is before start %s", to.Format(entities.DateLayout), from.Format(entities.DateLayout))
	}

	totals, err := s.transactionRepo.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum financial transactions: %w", err)
	}
	transactions, err := s.transactionRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial transactions: %w", err)
	}

	statement := &interfaces.Statement{
		From:              from,
		To:                to,
		IncomeByCategory:  make(map[string]int64),
		ExpenseByCategory: make(map[string]int64),
		Transactions:      transactions,
	}

	for _, total := range totals {
		amount := total.AmountCents
		kind := total.Type
		if !kind.IsValidCategory(total.Category) {
			kind = kind.Opposite()
			amount = -amount
		}

		if kind == entities.FinancialTransactionIncome {
			statement.IncomeByCategory[total.Category] += amount
			statement.TotalIncome += amount
		} else {
			statement.ExpenseByCategory[total.Category] += amount
			statement.TotalExpense += amount
		}
	}
	statement.Net = statement.TotalIncome - statement.TotalExpense

	return statement, nil
}

func validateTransaction(transaction *entities.FinancialTransaction) error {
	switch transaction.Type {
	case entities.FinancialTransactionIncome, entities.FinancialTransactionExpense:
	default:
		return errs.Validation("transaction_type", "unknown transaction type %q", transaction.Type)
	}
	if !transaction.Type.IsValidCategory(transaction.Category) {
		return errs.Validation("category", "%q is not a valid %s category", transaction.Category, transaction.Type)
	}
	if transaction.AmountCents <= 0 {
		return errs.Validation("amount_cents", "must be positive, got %d", transaction.AmountCents)
	}
	if strings.TrimSpace(transaction.Description) == "" {
		return errs.Validation("description", "is required")
	}
	if transaction.Date.IsZero() {
		return errs.Validation("transaction_date", "is required")
	}
	return nil
}
