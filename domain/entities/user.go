package entities

import (
	"strings"
	"time"
)

// User represents a club member or administrator account
type User struct {
	ID                  int64     `db:"id"`
	Name                string    `db:"name"`
	Email               string    `db:"email"`
	Phone               *string   `db:"phone"`
	PasswordHash        string    `db:"password_hash"`
	Qualification       string    `db:"qualification"`
	QualificationDetail *string   `db:"qualification_detail"`
	IsActive            bool      `db:"is_active"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// DefaultQualification is stored when a member registers without one
const DefaultQualification = "None"

// NormalizeEmail lower-cases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
