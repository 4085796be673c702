package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

const membershipColumns = `id, user_id, start_date, expiry_date, credits, status, created_at, updated_at`

// MembershipRepository implements the MembershipRepository interface
type MembershipRepository struct {
	q Queryable
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{q: db.Pool}
}

// NewMembershipRepositoryScoped creates a new membership repository bound to a transaction
func NewMembershipRepositoryScoped(tx Queryable) *MembershipRepository {
	return &MembershipRepository{q: tx}
}

func scanMembership(row pgx.Row) (*entities.Membership, error) {
	var m entities.Membership
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.StartDate,
		&m.ExpiryDate,
		&m.Credits,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByUserID retrieves the membership of a user
func (r *MembershipRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Membership, error) {
	return r.getByUserID(ctx, userID, "")
}

// GetByUserIDForUpdate retrieves the membership with a row lock held until the transaction ends
func (r *MembershipRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Membership, error) {
	return r.getByUserID(ctx, userID, " FOR UPDATE")
}

func (r *MembershipRepository) getByUserID(ctx context.Context, userID int64, lock string) (*entities.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1` + lock

	m, err := scanMembership(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership for user %d: %w", userID, err)
	}

	return m, nil
}

// Create inserts a membership row
func (r *MembershipRepository) Create(ctx context.Context, m *entities.Membership) error {
	query := `
		INSERT INTO memberships (user_id, start_date, expiry_date, credits, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		m.UserID,
		m.StartDate,
		m.ExpiryDate,
		m.Credits,
		m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create membership for user %d: %w", m.UserID, err)
	}

	return nil
}

// UpdatePeriod writes the period, allowance and status of a membership
func (r *MembershipRepository) UpdatePeriod(ctx context.Context, m *entities.Membership) error {
	query := `
		UPDATE memberships
		SET start_date = $2, expiry_date = $3, credits = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, m.ID, m.StartDate, m.ExpiryDate, m.Credits, m.Status).Scan(&m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("membership %d not found", m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update membership %d: %w", m.ID, err)
	}

	return nil
}

// ConsumeAllowance decrements the included shoots of an active, unexpired membership
func (r *MembershipRepository) ConsumeAllowance(ctx context.Context, userID int64, today time.Time) (bool, error) {
	query := `
		UPDATE memberships
		SET credits = credits - 1, updated_at = NOW()
		WHERE user_id = $1
		  AND status = 'active'
		  AND expiry_date >= $2
		  AND credits > 0
	`

	result, err := r.q.Exec(ctx, query, userID, entities.DateOnly(today))
	if err != nil {
		return false, fmt.Errorf("failed to consume allowance for user %d: %w", userID, err)
	}

	return result.RowsAffected() == 1, nil
}

// ExpireBefore moves active memberships whose expiry date has passed to expired
func (r *MembershipRepository) ExpireBefore(ctx context.Context, today time.Time) ([]*entities.Membership, error) {
	query := `
		UPDATE memberships
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND expiry_date < $1
		RETURNING ` + membershipColumns

	rows, err := r.q.Query(ctx, query, entities.DateOnly(today))
	if err != nil {
		return nil, fmt.Errorf("failed to expire memberships: %w", err)
	}
	defer rows.Close()

	var expired []*entities.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		expired = append(expired, m)
	}

	return expired, rows.Err()
}
