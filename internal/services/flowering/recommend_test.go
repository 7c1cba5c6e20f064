package flowering_test

import (
	"testing"
	"time"

	"github.com/curaious/finca/internal/services/flowering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckHarvestWindow(t *testing.T) {
	today := date(2024, 6, 20)

	tests := []struct {
		name      string
		flowering time.Time
		harvest   time.Time
		want      error
	}{
		{"inside_window", date(2024, 1, 1), date(2024, 6, 20), nil},
		{"exactly_min_weeks", date(2024, 1, 1), date(2024, 1, 1).AddDate(0, 0, 7*flowering.MinHarvestWeeks), nil},
		{"too_early", date(2024, 1, 1), date(2024, 5, 1), flowering.ErrHarvestTooEarly},
		{"too_late", date(2023, 6, 1), date(2024, 2, 1), flowering.ErrHarvestTooLate},
		{"before_flowering", date(2024, 1, 1), date(2023, 12, 1), flowering.ErrHarvestBeforeStart},
		{"future", date(2024, 1, 1), date(2024, 6, 21), flowering.ErrFutureHarvest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := flowering.CheckHarvestWindow(tt.flowering, tt.harvest, today)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecommend(t *testing.T) {
	fd := date(2024, 1, 1)

	recs := flowering.Recommend(fd, date(2024, 3, 15))
	require.Len(t, recs, 7)

	first := recs[0]
	assert.Equal(t, "Chequeo de salud", first.Task)
	assert.Equal(t, date(2024, 3, 4), first.StartDate)
	assert.Equal(t, date(2024, 4, 29), first.EndDate)
	assert.True(t, first.Programar)
	for _, r := range recs[1:] {
		assert.False(t, r.Programar, r.Task)
	}

	assert.Equal(t, "Chequeo de maduración 4", recs[6].Task)
	assert.Equal(t, fd.AddDate(0, 0, 32*7), recs[6].StartDate)
	assert.Equal(t, fd.AddDate(0, 0, 32*7+6), recs[6].EndDate)
}

func TestRecommendBoundsAreInclusive(t *testing.T) {
	fd := date(2024, 1, 1)
	window := flowering.Recommend(fd, fd)[1]

	tests := []struct {
		name  string
		today time.Time
		want  bool
	}{
		{"day_before_start", window.StartDate.AddDate(0, 0, -1), false},
		{"start", window.StartDate, true},
		{"end", window.EndDate, true},
		{"day_after_end", window.EndDate.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flowering.Recommend(fd, tt.today)[1].Programar)
		})
	}
}
