package domain

import "strings"

// Periodicity is the cadence at which a habit must be completed.
// It is a closed set: every consumer switches exhaustively over the
// three values and treats anything else as invalid input.
type Periodicity string

const (
	PeriodicityDaily   Periodicity = "daily"
	PeriodicityWeekly  Periodicity = "weekly"
	PeriodicityMonthly Periodicity = "monthly"
)

func (p Periodicity) Valid() bool {
	switch p {
	case PeriodicityDaily, PeriodicityWeekly, PeriodicityMonthly:
		return true
	default:
		return false
	}
}

func (p Periodicity) String() string {
	return string(p)
}

// ParsePeriodicity normalizes and validates a user-supplied periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPeriodicity
	}
	return p, nil
}
