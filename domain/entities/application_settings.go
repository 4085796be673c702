package entities

import "time"

// Defaults applied when no settings row exists
const (
	DefaultMembershipYearStartMonth = 3
	DefaultMembershipYearStartDay   = 1
	DefaultAnnualMembershipCost     = 10000
	DefaultMembershipShootsIncluded = 20
	DefaultAdditionalShootCost      = 500
	DefaultVisitorShootFee          = 1000
	DefaultCashPaymentInstructions  = "Please pay the membership fee in cash to a committee member at the next shoot."
)

// ApplicationSettings is the singleton fiscal and feature configuration.
// Amounts are cents; SumUpFeeBasisPoints is the online processor fee in
// hundredths of a percent (250 = 2.50%).
type ApplicationSettings struct {
	MembershipYearStartMonth int       `db:"membership_year_start_month"`
	MembershipYearStartDay   int       `db:"membership_year_start_day"`
	AnnualMembershipCost     int64     `db:"annual_membership_cost"`
	MembershipShootsIncluded int       `db:"membership_shoots_included"`
	AdditionalShootCost      int64     `db:"additional_shoot_cost"`
	CashPaymentInstructions  string    `db:"cash_payment_instructions"`
	NewsEnabled              bool      `db:"news_enabled"`
	EventsEnabled            bool      `db:"events_enabled"`
	VisitorShootFee          int64     `db:"visitor_shoot_fee"`
	SumUpFeeBasisPoints      *int64    `db:"sumup_fee_basis_points"`
	CreatedAt                time.Time `db:"created_at"`
	UpdatedAt                time.Time `db:"updated_at"`
}

// DefaultApplicationSettings returns the settings used for a fresh installation
func DefaultApplicationSettings() *ApplicationSettings {
	return &ApplicationSettings{
		MembershipYearStartMonth: DefaultMembershipYearStartMonth,
		MembershipYearStartDay:   DefaultMembershipYearStartDay,
		AnnualMembershipCost:     DefaultAnnualMembershipCost,
		MembershipShootsIncluded: DefaultMembershipShootsIncluded,
		AdditionalShootCost:      DefaultAdditionalShootCost,
		CashPaymentInstructions:  DefaultCashPaymentInstructions,
		VisitorShootFee:          DefaultVisitorShootFee,
	}
}

// ProcessingFee returns the online processor fee for amountCents, rounded half up.
// Zero when no fee percentage is configured.
func (s *ApplicationSettings) ProcessingFee(amountCents int64) int64 {
	if s.SumUpFeeBasisPoints == nil || *s.SumUpFeeBasisPoints <= 0 {
		return 0
	}
	return (amountCents**s.SumUpFeeBasisPoints + 5000) / 10000
}
