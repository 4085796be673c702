package services

import (
	"context"
	"fmt"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
)

const defaultContentLimit = 20

type contentService struct {
	contentRepo interfaces.ContentRepository
	settings    interfaces.SettingsService
}

// NewContentService creates the service for member-facing news and events
func NewContentService(contentRepo interfaces.ContentRepository, settings interfaces.SettingsService) interfaces.ContentService {
	return &contentService{
		contentRepo: contentRepo,
		settings:    settings,
	}
}

// PublishedNews returns news when the news feature is enabled, nothing otherwise
func (s *contentService) PublishedNews(ctx context.Context, asOf time.Time, limit int) ([]*entities.News, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.NewsEnabled {
		return nil, nil
	}

	if limit <= 0 {
		limit = defaultContentLimit
	}
	news, err := s.contentRepo.ListPublishedNews(ctx, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return news, nil
}

// UpcomingEvents returns events when the events feature is enabled, nothing otherwise
func (s *contentService) UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]*entities.Event, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.EventsEnabled {
		return nil, nil
	}

	if limit <= 0 {
		limit = defaultContentLimit
	}
	upcoming, err := s.contentRepo.ListUpcomingEvents(ctx, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return upcoming, nil
}
