// Package analytics is the periodicity-aware streak and health engine.
// Everything in here is a pure function over its inputs: the reference
// time is always an explicit parameter, no ambient clock reads, no state.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

var (
	// ErrPeriodOrder signals a caller bug: periods were presented out of
	// chronological order. Never silently corrected.
	ErrPeriodOrder = errors.New("periods are not in chronological order")

	// ErrPeriodMismatch signals periods derived under different periodicities.
	ErrPeriodMismatch = errors.New("periods have different periodicities")

	// ErrMalformedDate signals a date that fails basic calendar validity.
	ErrMalformedDate = errors.New("malformed date")
)

// DateLayout is the calendar-date wire format used across the API.
const DateLayout = "2006-01-02"

// Period is the canonical time bucket a date falls into: the day itself,
// the ISO week (Monday start), or the calendar month. Two dates are in
// the same period iff their Period values are equal.
type Period struct {
	Unit domain.Periodicity

	// Start is the canonical period start at midnight UTC: the day itself,
	// the Monday of the ISO week, or the first of the month.
	Start time.Time
}

// PeriodOf derives the period containing date under the given periodicity.
func PeriodOf(date time.Time, unit domain.Periodicity) Period {
	y, m, d := date.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch unit {
	case domain.PeriodicityWeekly:
		// Back up to Monday. Weekday() is Sunday-based, hence the +6 trick.
		offset := (int(day.Weekday()) + 6) % 7
		return Period{Unit: unit, Start: day.AddDate(0, 0, -offset)}
	case domain.PeriodicityMonthly:
		return Period{Unit: unit, Start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)}
	default:
		return Period{Unit: domain.PeriodicityDaily, Start: day}
	}
}

// Equal reports whether two periods are the same time bucket.
func (p Period) Equal(other Period) bool {
	return p.Unit == other.Unit && p.Start.Equal(other.Start)
}

// Key renders a stable label for the period: "2024-01-03" for days,
// "2024-W05" for ISO weeks, "2024-01" for months.
func (p Period) Key() string {
	switch p.Unit {
	case domain.PeriodicityWeekly:
		year, week := p.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case domain.PeriodicityMonthly:
		return p.Start.Format("2006-01")
	default:
		return p.Start.Format(DateLayout)
	}
}

// delta is the signed number of period steps from p to other. Negative
// means other precedes p. No ordering check: the exported functions
// layer that on top, while the streak engine needs the raw sign to
// tolerate future-dated check-offs.
func (p Period) delta(other Period) int {
	switch p.Unit {
	case domain.PeriodicityWeekly:
		days := int(other.Start.Sub(p.Start).Hours() / 24)
		return days / 7
	case domain.PeriodicityMonthly:
		years := other.Start.Year() - p.Start.Year()
		months := int(other.Start.Month()) - int(p.Start.Month())
		return years*12 + months
	default:
		return int(other.Start.Sub(p.Start).Hours() / 24)
	}
}

// PeriodsBetween returns the number of period steps separating p1 and p2,
// 0 if they are equal. p2 must not precede p1.
func PeriodsBetween(p1, p2 Period) (int, error) {
	if p1.Unit != p2.Unit {
		return 0, fmt.Errorf("%w: %s vs %s", ErrPeriodMismatch, p1.Unit, p2.Unit)
	}

	n := p1.delta(p2)
	if n < 0 {
		return 0, fmt.Errorf("%w: %s after %s", ErrPeriodOrder, p1.Key(), p2.Key())
	}

	return n, nil
}

// IsAdjacent reports whether p2 immediately follows p1 with no period
// skipped. A period is never adjacent to itself.
func IsAdjacent(p1, p2 Period) (bool, error) {
	n, err := PeriodsBetween(p1, p2)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ParseDate parses a YYYY-MM-DD calendar date, rejecting anything that
// is not a valid calendar day (e.g. Feb 31).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return t, nil
}
