package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

const creditColumns = `id, user_id, amount, payment_id, adjusted_by_id, reason, created_at`

// CreditRepository implements the CreditRepository interface.
// The ledger is append-only; the balance is the sum of a user's rows.
type CreditRepository struct {
	q Queryable
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *database.DB) *CreditRepository {
	return &CreditRepository{q: db.Pool}
}

// NewCreditRepositoryScoped creates a new credit repository bound to a transaction
func NewCreditRepositoryScoped(tx Queryable) *CreditRepository {
	return &CreditRepository{q: tx}
}

func scanCredit(row pgx.Row) (*entities.Credit, error) {
	var c entities.Credit
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Amount,
		&c.PaymentID,
		&c.AdjustedByID,
		&c.Reason,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create appends a ledger row
func (r *CreditRepository) Create(ctx context.Context, c *entities.Credit) error {
	query := `
		INSERT INTO credits (user_id, amount, payment_id, adjusted_by_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		c.UserID,
		c.Amount,
		c.PaymentID,
		c.AdjustedByID,
		c.Reason,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit entry for user %d: %w", c.UserID, err)
	}

	return nil
}

// GetBalance returns the sum of a user's ledger rows
func (r *CreditRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM credits WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to get credit balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// LockUserLedger takes a transaction-scoped advisory lock keyed on the user
func (r *CreditRepository) LockUserLedger(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("failed to lock credit ledger for user %d: %w", userID, err)
	}
	return nil
}

// GetByPaymentID returns the grant created for a payment
func (r *CreditRepository) GetByPaymentID(ctx context.Context, paymentID int64) (*entities.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE payment_id = $1`

	c, err := scanCredit(r.q.QueryRow(ctx, query, paymentID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit for payment %d: %w", paymentID, err)
	}

	return c, nil
}

// ListByUser returns the most recent ledger rows of a user
func (r *CreditRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits for user %d: %w", userID, err)
	}
	defer rows.Close()

	var credits []*entities.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, c)
	}

	return credits, rows.Err()
}

// ListLowStanding returns active members whose remaining allowance plus
// purchased balance is at most threshold.
func (r *CreditRepository) ListLowStanding(ctx context.Context, threshold int64, today time.Time) ([]*entities.CreditStanding, error) {
	query := `
		SELECT
			u.id,
			u.name,
			u.email,
			m.credits,
			COALESCE((SELECT SUM(c.amount) FROM credits c WHERE c.user_id = u.id), 0)::BIGINT AS balance
		FROM users u
		JOIN memberships m ON m.user_id = u.id
		WHERE u.is_active
		  AND m.status = 'active'
		  AND m.expiry_date >= $2
		  AND m.credits + COALESCE((SELECT SUM(c.amount) FROM credits c WHERE c.user_id = u.id), 0) <= $1
		ORDER BY u.name, u.id
	`

	rows, err := r.q.Query(ctx, query, threshold, entities.DateOnly(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list low credit standings: %w", err)
	}
	defer rows.Close()

	var standings []*entities.CreditStanding
	for rows.Next() {
		var s entities.CreditStanding
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.Allowance, &s.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan credit standing: %w", err)
		}
		standings = append(standings, &s)
	}

	return standings, rows.Err()
}
