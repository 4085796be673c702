package repository

import (
	"context"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository implements the SettingsRepository interface.
// The fee percentage is stored as NUMERIC(5,2) and exchanged as basis points.
type SettingsRepository struct {
	q Queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// NewSettingsRepositoryScoped creates a new settings repository bound to a transaction
func NewSettingsRepositoryScoped(tx Queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// Get returns the settings row
func (r *SettingsRepository) Get(ctx context.Context) (*entities.ApplicationSettings, error) {
	query := `
		SELECT
			membership_year_start_month,
			membership_year_start_day,
			annual_membership_cost,
			membership_shoots_included,
			additional_shoot_cost,
			cash_payment_instructions,
			news_enabled,
			events_enabled,
			visitor_shoot_fee,
			ROUND(sumup_fee_percentage * 100)::BIGINT AS sumup_fee_basis_points,
			created_at,
			updated_at
		FROM application_settings
		WHERE id = 1
	`

	var s entities.ApplicationSettings
	err := r.q.QueryRow(ctx, query).Scan(
		&s.MembershipYearStartMonth,
		&s.MembershipYearStartDay,
		&s.AnnualMembershipCost,
		&s.MembershipShootsIncluded,
		&s.AdditionalShootCost,
		&s.CashPaymentInstructions,
		&s.NewsEnabled,
		&s.EventsEnabled,
		&s.VisitorShootFee,
		&s.SumUpFeeBasisPoints,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application settings: %w", err)
	}

	return &s, nil
}

// InsertDefaults creates the settings row unless one exists
func (r *SettingsRepository) InsertDefaults(ctx context.Context, defaults *entities.ApplicationSettings) error {
	query := `
		INSERT INTO application_settings (
			id,
			membership_year_start_month,
			membership_year_start_day,
			annual_membership_cost,
			membership_shoots_included,
			additional_shoot_cost,
			cash_payment_instructions,
			news_enabled,
			events_enabled,
			visitor_shoot_fee,
			sumup_fee_percentage
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10::BIGINT::NUMERIC / 100)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.q.Exec(ctx, query,
		defaults.MembershipYearStartMonth,
		defaults.MembershipYearStartDay,
		defaults.AnnualMembershipCost,
		defaults.MembershipShootsIncluded,
		defaults.AdditionalShootCost,
		defaults.CashPaymentInstructions,
		defaults.NewsEnabled,
		defaults.EventsEnabled,
		defaults.VisitorShootFee,
		defaults.SumUpFeeBasisPoints,
	)
	if err != nil {
		return fmt.Errorf("failed to insert default settings: %w", err)
	}

	return nil
}

// Update writes every field of the settings row
func (r *SettingsRepository) Update(ctx context.Context, s *entities.ApplicationSettings) error {
	query := `
		UPDATE application_settings SET
			membership_year_start_month = $1,
			membership_year_start_day = $2,
			annual_membership_cost = $3,
			membership_shoots_included = $4,
			additional_shoot_cost = $5,
			cash_payment_instructions = $6,
			news_enabled = $7,
			events_enabled = $8,
			visitor_shoot_fee = $9,
			sumup_fee_percentage = $10::BIGINT::NUMERIC / 100,
			updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		s.MembershipYearStartMonth,
		s.MembershipYearStartDay,
		s.AnnualMembershipCost,
		s.MembershipShootsIncluded,
		s.AdditionalShootCost,
		s.CashPaymentInstructions,
		s.NewsEnabled,
		s.EventsEnabled,
		s.VisitorShootFee,
		s.SumUpFeeBasisPoints,
	).Scan(&s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("application settings row missing")
	}
	if err != nil {
		return fmt.Errorf("failed to update application settings: %w", err)
	}

	return nil
}
