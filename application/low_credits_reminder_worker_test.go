package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLowCreditsReminderWorker_NextRun(t *testing.T) {
	t.Parallel()

	worker := NewLowCreditsReminderWorker(&MockTaskScheduler{}, 3)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "earlier in the week",
			now:  time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC), // Wednesday
			want: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "monday before the slot",
			now:  time.Date(2026, time.October, 19, 8, 59, 0, 0, time.UTC),
			want: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly at the slot",
			now:  time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.October, 26, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday night",
			now:  time.Date(2026, time.October, 25, 23, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.October, 26, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, worker.NextRun(tt.now))
		})
	}
}
