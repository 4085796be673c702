package repository

import (
	"context"
	"fmt"
	"time"

	"clubledger/database"
	"clubledger/domain/entities"
)

// ContentRepository implements the ContentRepository interface for news and events
type ContentRepository struct {
	q Queryable
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{q: db.Pool}
}

// NewContentRepositoryScoped creates a new content repository bound to a transaction
func NewContentRepositoryScoped(tx Queryable) *ContentRepository {
	return &ContentRepository{q: tx}
}

// CreateNews inserts a news article
func (r *ContentRepository) CreateNews(ctx context.Context, n *entities.News) error {
	query := `
		INSERT INTO news (title, summary, content, publish_date, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, n.Title, n.Summary, n.Content, n.PublishDate, n.Published).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

// ListPublishedNews returns published news with a publish date on or before asOf, newest first
func (r *ContentRepository) ListPublishedNews(ctx context.Context, asOf time.Time, limit int) ([]*entities.News, error) {
	query := `
		SELECT id, title, summary, content, publish_date, published, created_at, updated_at
		FROM news
		WHERE published AND publish_date IS NOT NULL AND publish_date <= $1
		ORDER BY publish_date DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, entities.DateOnly(asOf), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var news []*entities.News
	for rows.Next() {
		var n entities.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.PublishDate, &n.Published, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		news = append(news, &n)
	}

	return news, rows.Err()
}

// CreateEvent inserts an event
func (r *ContentRepository) CreateEvent(ctx context.Context, e *entities.Event) error {
	query := `
		INSERT INTO events (title, description, start_at, end_at, location, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, e.Title, e.Description, e.StartAt, e.EndAt, e.Location, e.Published).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// ListUpcomingEvents returns published events starting at or after from, soonest first
func (r *ContentRepository) ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*entities.Event, error) {
	query := `
		SELECT id, title, description, start_at, end_at, location, published, created_at, updated_at
		FROM events
		WHERE published AND start_at >= $1
		ORDER BY start_at, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*entities.Event
	for rows.Next() {
		var e entities.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartAt, &e.EndAt, &e.Location, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}
