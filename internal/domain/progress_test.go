package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hearsay/internal/domain"
)

func TestAdvanceStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current int
		last    *time.Time
		want    int
	}{
		{"first activity", 0, nil, 1},
		{"consecutive day", 4, &yesterday, 5},
		{"same day", 4, &sameDay, 4},
		{"gap resets", 9, &lastWeek, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AdvanceStreak(tt.current, tt.last, today))
		})
	}
}

func TestAdvanceStreak_AcrossMonthBoundary(t *testing.T) {
	last := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, domain.AdvanceStreak(2, &last, today))
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2026, 3, 10, 2, 0, 0, 0, loc) // 2026-03-09 17:00 UTC
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), domain.DayOf(in))
}
