package flowering

import (
	"fmt"
	"time"

	"github.com/curaious/finca/internal/clock"
)

// Harvest window, in weeks after flowering
const (
	MinHarvestWeeks = 24
	MaxHarvestWeeks = 33
)

type window struct {
	task       string
	startDays  int
	lengthDays int
}

func weeks(n int) int { return n * 7 }

var schedule = func() []window {
	w := []window{
		{task: "Chequeo de salud", startDays: weeks(9), lengthDays: weeks(17) - weeks(9)},
		{task: "Control de plagas", startDays: weeks(18), lengthDays: weeks(22) - weeks(18)},
		{task: "Chequeo nutricional", startDays: weeks(24), lengthDays: 14},
	}
	for i, week := range []int{26, 28, 30, 32} {
		w = append(w, window{task: fmt.Sprintf("Chequeo de maduración %d", i+1), startDays: weeks(week), lengthDays: 6})
	}
	return w
}()

// Recommend derives the post-flowering task windows and flags the ones
// today falls in. Both dates are civil dates; window bounds are inclusive.
func Recommend(floweringDate, today time.Time) []Recommendation {
	fd := clock.Date(floweringDate, time.UTC)
	recs := make([]Recommendation, 0, len(schedule))
	for _, w := range schedule {
		start := fd.AddDate(0, 0, w.startDays)
		end := start.AddDate(0, 0, w.lengthDays)
		recs = append(recs, Recommendation{
			Task:      w.task,
			StartDate: start,
			EndDate:   end,
			Programar: !today.Before(start) && !today.After(end),
		})
	}
	return recs
}
