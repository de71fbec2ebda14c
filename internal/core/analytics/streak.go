package analytics

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

// streakGracePeriods is how many missed periods a live streak tolerates
// before the current streak decays to zero. 1 means "completed this
// period or the previous one".
const streakGracePeriods = 1

// DistinctPeriods dedupes raw check-off dates into their distinct periods,
// sorted chronologically ascending. Duplicate check-offs within one period
// collapse to a single entry, which is what makes check-offs idempotent
// per period.
func DistinctPeriods(dates []time.Time, unit domain.Periodicity) []Period {
	seen := make(map[string]Period, len(dates))
	for _, d := range dates {
		p := PeriodOf(d, unit)
		seen[p.Key()] = p
	}

	periods := make([]Period, 0, len(seen))
	for _, p := range seen {
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})

	return periods
}

// ComputeStreaks scans the sorted distinct periods left to right, grouping
// consecutive periods into runs. Longest is the maximum run observed.
// Current is the trailing run, but only while that run's last period is
// within the grace window of now's period; once a full period elapses
// without a completion it is zero. Longest is pure history; current
// depends on now and must be recomputed at query time, never stored
// as truth.
func ComputeStreaks(unit domain.Periodicity, periods []Period, now time.Time) (domain.StreakResult, error) {
	if len(periods) == 0 {
		return domain.StreakResult{}, nil
	}

	longest := 1
	run := 1

	for i := 1; i < len(periods); i++ {
		steps, err := PeriodsBetween(periods[i-1], periods[i])
		if err != nil {
			return domain.StreakResult{}, err
		}

		switch {
		case steps == 0:
			// Same period twice; tolerated, does not extend the run.
			continue
		case steps == 1:
			run++
		default:
			run = 1
		}

		if run > longest {
			longest = run
		}
	}

	current := 0
	// Signed distance: a trailing period dated after now keeps the streak
	// alive rather than erroring out.
	gap := periods[len(periods)-1].delta(PeriodOf(now, unit))
	if gap <= streakGracePeriods {
		current = run
	}

	return domain.StreakResult{Current: current, Longest: longest}, nil
}
