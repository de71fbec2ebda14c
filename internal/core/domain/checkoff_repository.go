package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCheckOffNotFound = errors.New("check-off not found")
	ErrCheckOffConflict = errors.New("check-off version conflict")
)

type CheckOffRepository interface {
	// Create persists a new check-off to the storage.
	Create(ctx context.Context, checkOff *CheckOff) error

	// GetByID retrieves a single active (non-deleted) check-off by its ID.
	GetByID(ctx context.Context, id string) (*CheckOff, error)

	// ListByHabitID retrieves the full check-off log of a habit, ordered by
	// date ascending. The analytics engine consumes this as its immutable
	// snapshot of the completion history.
	ListByHabitID(ctx context.Context, habitID string) ([]*CheckOff, error)

	// ListByHabitIDWithRange retrieves check-offs within a date range,
	// for calendar and chart views.
	ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*CheckOff, error)

	// Delete performs a soft delete on the check-off.
	Delete(ctx context.Context, id string) error
}
