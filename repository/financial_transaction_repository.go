package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

const financialTransactionColumns = `
	id, transaction_type, transaction_date, amount_cents, currency, category, description,
	source, receipt_reference, created_by_id, created_at, updated_at`

// FinancialTransactionRepository implements the FinancialTransactionRepository interface
type FinancialTransactionRepository struct {
	q Queryable
}

// NewFinancialTransactionRepository creates a new bookkeeping repository
func NewFinancialTransactionRepository(db *database.DB) *FinancialTransactionRepository {
	return &FinancialTransactionRepository{q: db.Pool}
}

// NewFinancialTransactionRepositoryScoped creates a new bookkeeping repository bound to a transaction
func NewFinancialTransactionRepositoryScoped(tx Queryable) *FinancialTransactionRepository {
	return &FinancialTransactionRepository{q: tx}
}

func scanFinancialTransaction(row pgx.Row) (*entities.FinancialTransaction, error) {
	var ft entities.FinancialTransaction
	err := row.Scan(
		&ft.ID,
		&ft.Type,
		&ft.Date,
		&ft.AmountCents,
		&ft.Currency,
		&ft.Category,
		&ft.Description,
		&ft.Source,
		&ft.ReceiptReference,
		&ft.CreatedByID,
		&ft.CreatedAt,
		&ft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

// Create appends a bookkeeping row
func (r *FinancialTransactionRepository) Create(ctx context.Context, ft *entities.FinancialTransaction) error {
	query := `
		INSERT INTO financial_transactions (
			transaction_type, transaction_date, amount_cents, currency, category,
			description, source, receipt_reference, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		ft.Type,
		entities.DateOnly(ft.Date),
		ft.AmountCents,
		ft.Currency,
		ft.Category,
		ft.Description,
		ft.Source,
		ft.ReceiptReference,
		ft.CreatedByID,
	).Scan(&ft.ID, &ft.CreatedAt, &ft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create financial transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a bookkeeping row
func (r *FinancialTransactionRepository) GetByID(ctx context.Context, id int64) (*entities.FinancialTransaction, error) {
	query := `SELECT ` + financialTransactionColumns + ` FROM financial_transactions WHERE id = $1`

	ft, err := scanFinancialTransaction(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial transaction %d: %w", id, err)
	}

	return ft, nil
}

// ListBetween returns rows dated within [from, to], oldest first
func (r *FinancialTransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.FinancialTransaction, error) {
	query := `
		SELECT ` + financialTransactionColumns + `
		FROM financial_transactions
		WHERE transaction_date BETWEEN $1 AND $2
		ORDER BY transaction_date, id
	`

	rows, err := r.q.Query(ctx, query, entities.DateOnly(from), entities.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list financial transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.FinancialTransaction
	for rows.Next() {
		ft, err := scanFinancialTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial transaction: %w", err)
		}
		transactions = append(transactions, ft)
	}

	return transactions, rows.Err()
}

// SumByCategory returns per type and category totals for rows dated within [from, to]
func (r *FinancialTransactionRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]*entities.CategoryTotal, error) {
	query := `
		SELECT transaction_type, category, SUM(amount_cents)::BIGINT, COUNT(*)
		FROM financial_transactions
		WHERE transaction_date BETWEEN $1 AND $2
		GROUP BY transaction_type, category
		ORDER BY transaction_type, category
	`

	rows, err := r.q.Query(ctx, query, entities.DateOnly(from), entities.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to sum financial transactions: %w", err)
	}
	defer rows.Close()

	var totals []*entities.CategoryTotal
	for rows.Next() {
		var t entities.CategoryTotal
		if err := rows.Scan(&t.Type, &t.Category, &t.AmountCents, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, &t)
	}

	return totals, rows.Err()
}
