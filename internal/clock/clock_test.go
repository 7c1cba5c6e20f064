package clock_test

import (
	"testing"
	"time"

	"github.com/curaious/finca/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	if err != nil {
		t.Skip("zone database not available")
	}

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "utc_keeps_day",
			in:   time.Date(2024, 6, 20, 23, 59, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "nil_location_is_utc",
			in:   time.Date(2024, 6, 20, 1, 0, 0, 0, time.UTC),
			loc:  nil,
			want: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "early_utc_is_previous_day_in_bogota",
			in:   time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC),
			loc:  bogota,
			want: time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clock.Date(tt.in, tt.loc))
		})
	}
}

func TestFixedAndToday(t *testing.T) {
	c := &clock.Fixed{T: time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)}
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), clock.Today(c, time.UTC))

	c.T = c.T.Add(24 * time.Hour)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), clock.Today(c, time.UTC))
}

func TestDaysAndWeeksBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, clock.DaysBetween(a, a))
	assert.Equal(t, 31, clock.DaysBetween(a, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, clock.DaysBetween(a, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))

	assert.InDelta(t, 24.0, clock.WeeksBetween(a, a.AddDate(0, 0, 168)), 1e-9)
	assert.InDelta(t, 24.43, clock.WeeksBetween(a, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)), 0.01)
}
