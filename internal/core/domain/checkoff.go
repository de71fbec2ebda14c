package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCheckOffFuture = errors.New("check-off date cannot be in the future")
)

// CheckOff is one completion event for a habit. Only the calendar date
// matters: the time component is dropped on construction, and multiple
// check-offs within the same period count as one for analytics.
type CheckOff struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`

	Date  time.Time `json:"date" db:"date"`
	Notes string    `json:"notes,omitempty" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewCheckOff(habitID string, date time.Time) *CheckOff {
	now := time.Now().UTC()

	y, m, d := date.UTC().Date()

	return &CheckOff{
		HabitID: habitID,
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *CheckOff) Validate() error {
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if c.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
