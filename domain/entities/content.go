package entities

import "time"

// News is an editorial article shown to members
type News struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Summary     *string    `db:"summary"`
	Content     string     `db:"content"`
	PublishDate *time.Time `db:"publish_date"`
	Published   bool       `db:"published"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Event is a club event listing
type Event struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	StartAt     time.Time  `db:"start_at"`
	EndAt       *time.Time `db:"end_at"`
	Location    *string    `db:"location"`
	Published   bool       `db:"published"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
