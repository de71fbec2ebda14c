package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrInvalidPeriodicity = errors.New("invalid periodicity (must be daily, weekly, or monthly)")
	ErrHabitDeleted       = errors.New("cannot update a deleted habit")
)

const (
	MaxNameLen = 100
	MaxDescLen = 500
)

type Habit struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description,omitempty" db:"description"`
	Periodicity Periodicity `json:"periodicity" db:"periodicity"`

	// StartDate is a calendar date (midnight UTC). It anchors the grace
	// window for habits that have never been checked off.
	StartDate time.Time `json:"start_date" db:"start_date"`

	// Streak snapshot maintained by the streak worker. Always re-derivable
	// from the check-off log; stored only so list views stay cheap.
	CurrentStreak int `json:"current_streak" db:"current_streak"`
	LongestStreak int `json:"longest_streak" db:"longest_streak"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateHabit(name, desc string, periodicity Periodicity) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrHabitNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrHabitNameTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	if !periodicity.Valid() {
		return ErrInvalidPeriodicity
	}

	return nil
}

// NewHabit builds a validated habit. A zero startDate defaults to today;
// whatever is passed gets truncated to a calendar date in UTC.
func NewHabit(name, description string, periodicity Periodicity, startDate time.Time) (*Habit, error) {
	if err := validateHabit(name, description, periodicity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if startDate.IsZero() {
		startDate = now
	}
	y, m, d := startDate.UTC().Date()
	startDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return &Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Periodicity: periodicity,
		StartDate:   startDate,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(name, description string, periodicity Periodicity) error {
	if h.DeletedAt != nil {
		return ErrHabitDeleted
	}

	if err := validateHabit(name, description, periodicity); err != nil {
		return err
	}

	h.Name = strings.TrimSpace(name)
	h.Description = strings.TrimSpace(description)
	h.Periodicity = periodicity
	h.UpdatedAt = time.Now().UTC()

	return nil
}

func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}
