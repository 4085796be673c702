package services

import (
	"context"
	"fmt"

	"clubledger/domain/calendar"
	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type settingsService struct {
	settingsRepo   interfaces.SettingsRepository
	eventPublisher interfaces.EventPublisher
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo interfaces.SettingsRepository, eventPublisher interfaces.EventPublisher) interfaces.SettingsService {
	return &settingsService{
		settingsRepo:   settingsRepo,
		eventPublisher: eventPublisher,
	}
}

// Get returns the current settings, creating the default row if none exists
func (s *settingsService) Get(ctx context.Context) (*entities.ApplicationSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings != nil {
		return settings, nil
	}

	log.Info("No application settings found, inserting defaults")
	if err := s.settingsRepo.InsertDefaults(ctx, entities.DefaultApplicationSettings()); err != nil {
		return nil, fmt.Errorf("failed to insert default settings: %w", err)
	}

	settings, err = s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings == nil {
		return nil, fmt.Errorf("settings row missing after inserting defaults")
	}
	return settings, nil
}

// Update validates and applies a partial update
func (s *settingsService) Update(ctx context.Context, update interfaces.SettingsUpdate) (*entities.ApplicationSettings, error) {
	if err := validateSettingsUpdate(update); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	changed := applySettingsUpdate(settings, update)

	// Month and day are validated together against the merged result
	if !calendar.IsValidYearStart(settings.MembershipYearStartMonth, settings.MembershipYearStartDay) {
		return nil, errs.Validation("membership_year_start",
			"month %d and day %d do not form a date in a non-leap year",
			settings.MembershipYearStartMonth, settings.MembershipYearStartDay)
	}

	if len(changed) == 0 {
		return settings, nil
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	log.WithFields(log.Fields{
		"changedFields": changed,
	}).Info("Application settings updated")

	if err := s.eventPublisher.Publish(events.SettingsUpdatedEvent{ChangedFields: changed}); err != nil {
		log.WithError(err).Error("Failed to publish settings updated event")
	}

	return settings, nil
}

func validateSettingsUpdate(update interfaces.SettingsUpdate) error {
	nonNegative := []struct {
		field string
		value *int64
	}{
		{"annual_membership_cost", update.AnnualMembershipCost},
		{"additional_shoot_cost", update.AdditionalShootCost},
		{"visitor_shoot_fee", update.VisitorShootFee},
		{"sumup_fee_percentage", update.SumUpFeeBasisPoints},
	}
	for _, f := range nonNegative {
		if f.value != nil && *f.value < 0 {
			return errs.Validation(f.field, "must not be negative, got %d", *f.value)
		}
	}

	if update.MembershipShootsIncluded != nil && *update.MembershipShootsIncluded < 0 {
		return errs.Validation("membership_shoots_included", "must not be negative, got %d", *update.MembershipShootsIncluded)
	}
	if update.SumUpFeeBasisPoints != nil && *update.SumUpFeeBasisPoints > 10000 {
		return errs.Validation("sumup_fee_percentage", "must not exceed 100%%")
	}
	if update.SumUpFeeBasisPoints != nil && update.ClearSumUpFee {
		return errs.Validation("sumup_fee_percentage", "cannot set and clear in the same update")
	}
	if update.AdditionalShootCost != nil && *update.AdditionalShootCost == 0 {
		return errs.Validation("additional_shoot_cost", "must be positive so credit purchases can be priced")
	}
	return nil
}

func applySettingsUpdate(settings *entities.ApplicationSettings, update interfaces.SettingsUpdate) []string {
	var changed []string

	if update.MembershipYearStartMonth != nil && *update.MembershipYearStartMonth != settings.MembershipYearStartMonth {
		settings.MembershipYearStartMonth = *update.MembershipYearStartMonth
		changed = append(changed, "membership_year_start_month")
	}
	if update.MembershipYearStartDay != nil && *update.MembershipYearStartDay != settings.MembershipYearStartDay {
		settings.MembershipYearStartDay = *update.MembershipYearStartDay
		changed = append(changed, "membership_year_start_day")
	}
	if update.AnnualMembershipCost != nil && *update.AnnualMembershipCost != settings.AnnualMembershipCost {
		settings.AnnualMembershipCost = *update.AnnualMembershipCost
		changed = append(changed, "annual_membership_cost")
	}
	if update.MembershipShootsIncluded != nil && *update.MembershipShootsIncluded != settings.MembershipShootsIncluded {
		settings.MembershipShootsIncluded = *update.MembershipShootsIncluded
		changed = append(changed, "membership_shoots_included")
	}
	if update.AdditionalShootCost != nil && *update.AdditionalShootCost != settings.AdditionalShootCost {
		settings.AdditionalShootCost = *update.AdditionalShootCost
		changed = append(changed, "additional_shoot_cost")
	}
	if update.CashPaymentInstructions != nil && *update.CashPaymentInstructions != settings.CashPaymentInstructions {
		settings.CashPaymentInstructions = *update.CashPaymentInstructions
		changed = append(changed, "cash_payment_instructions")
	}
	if update.NewsEnabled != nil && *update.NewsEnabled != settings.NewsEnabled {
		settings.NewsEnabled = *update.NewsEnabled
		changed = append(changed, "news_enabled")
	}
	if update.EventsEnabled != nil && *update.EventsEnabled != settings.EventsEnabled {
		settings.EventsEnabled = *update.EventsEnabled
		changed = append(changed, "events_enabled")
	}
	if update.VisitorShootFee != nil && *update.VisitorShootFee != settings.VisitorShootFee {
		settings.VisitorShootFee = *update.VisitorShootFee
		changed = append(changed, "visitor_shoot_fee")
	}
	if update.SumUpFeeBasisPoints != nil &&
		(settings.SumUpFeeBasisPoints == nil || *settings.SumUpFeeBasisPoints != *update.SumUpFeeBasisPoints) {
		bp := *update.SumUpFeeBasisPoints
		settings.SumUpFeeBasisPoints = &bp
		changed = append(changed, "sumup_fee_percentage")
	}
	if update.ClearSumUpFee && settings.SumUpFeeBasisPoints != nil {
		settings.SumUpFeeBasisPoints = nil
		changed = append(changed, "sumup_fee_percentage")
	}

	return changed
}
