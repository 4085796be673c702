package application

import (
	"context"
	"time"

	"clubledger/application/dto"

	log "github.com/sirupsen/logrus"
)

// LowCreditsReminderWorker schedules the low credits reminder task once a week
type LowCreditsReminderWorker struct {
	scheduler TaskScheduler
	threshold int64
	weekday   time.Weekday
	hour      int
}

// NewLowCreditsReminderWorker creates a worker that fires every Monday at 09:00 UTC
func NewLowCreditsReminderWorker(scheduler TaskScheduler, threshold int64) *LowCreditsReminderWorker {
	return &LowCreditsReminderWorker{
		scheduler: scheduler,
		threshold: threshold,
		weekday:   time.Monday,
		hour:      9,
	}
}

// NextRun returns the first scheduled instant strictly after now
func (w *LowCreditsReminderWorker) NextRun(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, time.UTC)

	days := (int(w.weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)

	// Already past this week's slot
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Start begins the worker. The returned function stops it.
func (w *LowCreditsReminderWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		for {
			waitDuration := time.Until(w.NextRun(time.Now()))
			log.Infof("Low credits reminder worker waiting %v until next run", waitDuration.Round(time.Second))

			select {
			case <-ctx.Done():
				log.Info("Low credits reminder worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Low credits reminder worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
				payload := dto.LowCreditsReminderPayload{Threshold: w.threshold}
				if err := w.scheduler.Schedule(ctx, dto.TaskLowCreditsReminder, payload); err != nil {
					log.WithError(err).Error("Failed to schedule low credits reminder")
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
