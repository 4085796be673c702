package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ShootRepository implements the ShootRepository interface
type ShootRepository struct {
	q Queryable
}

// NewShootRepository creates a new shoot repository
func NewShootRepository(db *database.DB) *ShootRepository {
	return &ShootRepository{q: db.Pool}
}

// NewShootRepositoryScoped creates a new shoot repository bound to a transaction
func NewShootRepositoryScoped(tx Queryable) *ShootRepository {
	return &ShootRepository{q: tx}
}

// Create inserts a shoot
func (r *ShootRepository) Create(ctx context.Context, shoot *entities.Shoot) error {
	query := `
		INSERT INTO shoots (date, location, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, entities.DateOnly(shoot.Date), shoot.Location, shoot.Description).
		Scan(&shoot.ID, &shoot.CreatedAt, &shoot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shoot: %w", err)
	}

	return nil
}

// GetByID retrieves a shoot by ID
func (r *ShootRepository) GetByID(ctx context.Context, id int64) (*entities.Shoot, error) {
	query := `SELECT id, date, location, description, created_at, updated_at FROM shoots WHERE id = $1`

	var s entities.Shoot
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Date, &s.Location, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shoot %d: %w", id, err)
	}

	return &s, nil
}

// ListBetween returns shoots dated within [from, to], newest first
func (r *ShootRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entities.Shoot, error) {
	query := `
		SELECT id, date, location, description, created_at, updated_at
		FROM shoots
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, entities.DateOnly(from), entities.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list shoots: %w", err)
	}
	defer rows.Close()

	var shoots []*entities.Shoot
	for rows.Next() {
		var s entities.Shoot
		if err := rows.Scan(&s.ID, &s.Date, &s.Location, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shoot: %w", err)
		}
		shoots = append(shoots, &s)
	}

	return shoots, rows.Err()
}

// AddAttendee records a member at a shoot
func (r *ShootRepository) AddAttendee(ctx context.Context, shootID, userID int64) (bool, error) {
	query := `INSERT INTO user_shoots (user_id, shoot_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	result, err := r.q.Exec(ctx, query, userID, shootID)
	if err != nil {
		return false, fmt.Errorf("failed to record user %d at shoot %d: %w", userID, shootID, err)
	}
	return result.RowsAffected() == 1, nil
}

// ListAttendees returns attendance rows for a shoot
func (r *ShootRepository) ListAttendees(ctx context.Context, shootID int64) ([]*entities.UserShoot, error) {
	query := `SELECT user_id, shoot_id, attended_at FROM user_shoots WHERE shoot_id = $1 ORDER BY attended_at, user_id`

	rows, err := r.q.Query(ctx, query, shootID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees of shoot %d: %w", shootID, err)
	}
	defer rows.Close()

	var attendees []*entities.UserShoot
	for rows.Next() {
		var us entities.UserShoot
		if err := rows.Scan(&us.UserID, &us.ShootID, &us.AttendedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, &us)
	}

	return attendees, rows.Err()
}

// AddVisitor inserts a visitor row
func (r *ShootRepository) AddVisitor(ctx context.Context, v *entities.ShootVisitor) error {
	query := `
		INSERT INTO shoot_visitors (shoot_id, name, club, affiliation, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, v.ShootID, v.Name, v.Club, v.Affiliation, v.PaymentMethod).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add visitor to shoot %d: %w", v.ShootID, err)
	}

	return nil
}

// ListVisitors returns visitors of a shoot
func (r *ShootRepository) ListVisitors(ctx context.Context, shootID int64) ([]*entities.ShootVisitor, error) {
	query := `
		SELECT id, shoot_id, name, club, affiliation, payment_method, created_at
		FROM shoot_visitors
		WHERE shoot_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, shootID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors of shoot %d: %w", shootID, err)
	}
	defer rows.Close()

	var visitors []*entities.ShootVisitor
	for rows.Next() {
		var v entities.ShootVisitor
		if err := rows.Scan(&v.ID, &v.ShootID, &v.Name, &v.Club, &v.Affiliation, &v.PaymentMethod, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visitor: %w", err)
		}
		visitors = append(visitors, &v)
	}

	return visitors, rows.Err()
}
