package analytics

import (
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

// EvaluateHealth determines whether a habit is on track at the reference
// time. lastCheckOff is nil for habits that have never been completed;
// such habits get one full period of grace from their start date before
// being reported broken.
//
// A check-off dated after now is valid for streak purposes, but the day
// count is clamped to zero and flagged via FutureDated.
func EvaluateHealth(unit domain.Periodicity, startDate time.Time, lastCheckOff *time.Time, now time.Time) domain.HealthStatus {
	nowPeriod := PeriodOf(now, unit)

	if lastCheckOff == nil {
		status := domain.StatusPending
		if PeriodOf(startDate, unit).delta(nowPeriod) > streakGracePeriods {
			status = domain.StatusBroken
		}
		return domain.HealthStatus{Status: status, DaysSinceLast: nil}
	}

	gap := PeriodOf(*lastCheckOff, unit).delta(nowPeriod)

	var status domain.HabitStatus
	switch {
	case gap <= 0:
		status = domain.StatusStreak
	case gap <= streakGracePeriods:
		status = domain.StatusPending
	default:
		status = domain.StatusBroken
	}

	days := calendarDaysBetween(*lastCheckOff, now)
	futureDated := days < 0
	if futureDated {
		days = 0
	}

	return domain.HealthStatus{
		Status:        status,
		DaysSinceLast: &days,
		FutureDated:   futureDated,
	}
}

// calendarDaysBetween counts whole calendar days from a to b, ignoring
// time-of-day. Negative when b precedes a.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	return int(to.Sub(from).Hours() / 24)
}
