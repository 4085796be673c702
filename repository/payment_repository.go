package repository

import (
	"context"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `
	id, user_id, amount_cents, currency, payment_type, payment_method, status, description,
	credit_quantity, payment_processor, external_transaction_id, failure_reason, created_at, updated_at`

// PaymentRepository implements the PaymentRepository interface.
// Status changes are compare-and-set on status = 'pending'.
type PaymentRepository struct {
	q Queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// NewPaymentRepositoryScoped creates a new payment repository bound to a transaction
func NewPaymentRepositoryScoped(tx Queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

func scanPayment(row pgx.Row) (*entities.Payment, error) {
	var p entities.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.AmountCents,
		&p.Currency,
		&p.Type,
		&p.Method,
		&p.Status,
		&p.Description,
		&p.CreditQuantity,
		&p.Processor,
		&p.ExternalTransactionID,
		&p.FailureReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg any) (*entities.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// Create inserts a pending payment
func (r *PaymentRepository) Create(ctx context.Context, p *entities.Payment) error {
	query := `
		INSERT INTO payments (user_id, amount_cents, currency, payment_type, payment_method, status, description, credit_quantity)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7)
		RETURNING id, status, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		p.UserID,
		p.AmountCents,
		p.Currency,
		p.Type,
		p.Method,
		p.Description,
		p.CreditQuantity,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment for user %d: %w", p.UserID, err)
	}

	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*entities.Payment, error) {
	p, err := r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return p, nil
}

// GetByIDForUpdate retrieves a payment and locks it until the transaction ends
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Payment, error) {
	p, err := r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock payment %d: %w", id, err)
	}
	return p, nil
}

// GetByExternalTransactionID retrieves a payment by gateway transaction id
func (r *PaymentRepository) GetByExternalTransactionID(ctx context.Context, externalTransactionID string) (*entities.Payment, error) {
	p, err := r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE external_transaction_id = $1`, externalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment by external transaction id: %w", err)
	}
	return p, nil
}

// MarkCompleted moves a pending payment to completed
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id int64, externalTransactionID, processor string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'completed', external_transaction_id = $2, payment_processor = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, externalTransactionID, processor)
	if err != nil {
		return false, fmt.Errorf("failed to complete payment %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkFailed moves a pending payment to failed
func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'failed', failure_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment %d failed: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkCancelled moves a pending payment to cancelled
func (r *PaymentRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel payment %d: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// ListByUser returns the most recent payments of a user
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.list(ctx, query, userID, limit)
}

// ListPending returns pending payments made with the given method, oldest first
func (r *PaymentRepository) ListPending(ctx context.Context, method entities.PaymentMethod) ([]*entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = 'pending' AND payment_method = $1 ORDER BY created_at, id`
	return r.list(ctx, query, method)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*entities.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entities.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
