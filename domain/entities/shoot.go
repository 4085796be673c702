package entities

import "time"

// ShootLocation is where a shoot takes place
type ShootLocation string

const (
	ShootLocationHall   ShootLocation = "HALL"
	ShootLocationMeadow ShootLocation = "MEADOW"
	ShootLocationWoods  ShootLocation = "WOODS"
)

// IsValid reports whether the location is one the club uses
func (l ShootLocation) IsValid() bool {
	switch l {
	case ShootLocationHall, ShootLocationMeadow, ShootLocationWoods:
		return true
	}
	return false
}

// Shoot is a scheduled shooting session
type Shoot struct {
	ID          int64         `db:"id"`
	Date        time.Time     `db:"date"`
	Location    ShootLocation `db:"location"`
	Description *string       `db:"description"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

// UserShoot records a member attending a shoot
type UserShoot struct {
	UserID     int64     `db:"user_id"`
	ShootID    int64     `db:"shoot_id"`
	AttendedAt time.Time `db:"attended_at"`
}

// ShootVisitor is a non-member walk-in billed the visitor fee
type ShootVisitor struct {
	ID            int64         `db:"id"`
	ShootID       int64         `db:"shoot_id"`
	Name          string        `db:"name"`
	Club          string        `db:"club"`
	Affiliation   string        `db:"affiliation"`
	PaymentMethod PaymentMethod `db:"payment_method"`
	CreatedAt     time.Time     `db:"created_at"`
}
