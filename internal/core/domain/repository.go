package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitExists   = errors.New("habit with this name already exists")
	ErrHabitConflict = errors.New("habit version conflict")
)

type HabitRepository interface {
	// Create persists a new habit definition in the storage.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// GetByName retrieves a habit by its unique name. Names are the
	// user-facing handle for habits, so most lookups go through here.
	GetByName(ctx context.Context, name string) (*Habit, error)

	// List retrieves all active habits, optionally filtered by periodicity.
	// An empty periodicity means no filter.
	List(ctx context.Context, periodicity Periodicity) ([]*Habit, error)

	// Update modifies the state of an existing habit. Implementations must
	// enforce optimistic locking on the habit version.
	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit (soft delete) together with its check-off log.
	Delete(ctx context.Context, id string) error

	// UpdateStreaks persists a recomputed streak snapshot without bumping
	// the habit version, so background recomputes never conflict with
	// user edits.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}
