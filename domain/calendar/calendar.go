// Package calendar computes membership-year boundaries and expiry dates from
// the fiscal settings. Everything here is pure and works on UTC calendar days.
package calendar

import (
	"time"

	"clubledger/domain/entities"
)

// DefaultRenewalWindowDays is how close to a year end a start date must be
// for the membership to run through the following fiscal year.
const DefaultRenewalWindowDays = 30

// Calendar holds the parameters that are not part of the stored settings
type Calendar struct {
	RenewalWindowDays int
}

// Default is the calendar used by the package level functions
var Default = New(DefaultRenewalWindowDays)

// New creates a calendar with the given early renewal window. Negative
// windows are treated as zero.
func New(renewalWindowDays int) *Calendar {
	if renewalWindowDays < 0 {
		renewalWindowDays = 0
	}
	return &Calendar{RenewalWindowDays: renewalWindowDays}
}

// MembershipYearBounds returns the first and last day of the fiscal year containing ref
func (c *Calendar) MembershipYearBounds(ref time.Time, settings *entities.ApplicationSettings) (time.Time, time.Time) {
	ref = entities.DateOnly(ref)

	start := boundary(ref.Year(), settings)
	if ref.Before(start) {
		start = boundary(ref.Year()-1, settings)
	}
	end := boundary(start.Year()+1, settings).AddDate(0, 0, -1)

	return start, end
}

// ComputeExpiry returns the expiry date of a membership starting on start:
// the end of its fiscal year, or the end of the following one when start
// falls inside the renewal window before the year end. A start on the very
// last day of a year always rolls forward so expiry stays after start.
func (c *Calendar) ComputeExpiry(start time.Time, settings *entities.ApplicationSettings) time.Time {
	start = entities.DateOnly(start)
	yearStart, yearEnd := c.MembershipYearBounds(start, settings)

	window := c.RenewalWindowDays
	if window < 1 {
		window = 1
	}

	if daysBetween(start, yearEnd) < window {
		return boundary(yearStart.Year()+2, settings).AddDate(0, 0, -1)
	}
	return yearEnd
}

// MembershipYearBounds uses the Default calendar
func MembershipYearBounds(ref time.Time, settings *entities.ApplicationSettings) (time.Time, time.Time) {
	return Default.MembershipYearBounds(ref, settings)
}

// ComputeExpiry uses the Default calendar
func ComputeExpiry(start time.Time, settings *entities.ApplicationSettings) time.Time {
	return Default.ComputeExpiry(start, settings)
}

// IsValidYearStart reports whether month/day is a date in every year.
// Feb 29 is rejected because it does not exist in non-leap years.
func IsValidYearStart(month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(time.Month(month), 2001)
}

// boundary is the fiscal year start in calendar year. A day past the end of
// the month (Feb 29 in a non-leap year) clamps to the month's last day.
func boundary(year int, settings *entities.ApplicationSettings) time.Time {
	month := time.Month(settings.MembershipYearStartMonth)
	day := settings.MembershipYearStartDay
	if last := daysIn(month, year); day > last {
		day = last
	}
	return entities.NewDate(year, month, day)
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
