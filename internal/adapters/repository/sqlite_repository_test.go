package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cadence_test.db"))
	require.NoError(t, err, "Failed to open sqlite store")
	t.Cleanup(func() { store.Close() })
	return store
}

func newSampleHabit(t *testing.T, name string, periodicity domain.Periodicity) *domain.Habit {
	t.Helper()

	h, err := domain.NewHabit(name, "integration fixture", periodicity,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return h
}

func TestSQLiteHabitRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and GetByName round trip", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, repo.Create(ctx, h))

		got, err := repo.GetByName(ctx, "Morning Run")
		require.NoError(t, err)
		assert.Equal(t, h.ID, got.ID)
		assert.Equal(t, domain.PeriodicityDaily, got.Periodicity)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("Create rejects duplicate active name", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		require.NoError(t, repo.Create(ctx, newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)))

		err := repo.Create(ctx, newSampleHabit(t, "Morning Run", domain.PeriodicityWeekly))
		assert.ErrorIs(t, err, domain.ErrHabitExists)
	})

	t.Run("Name can be reused after delete", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, repo.Create(ctx, h))
		require.NoError(t, repo.Delete(ctx, h.ID))

		assert.NoError(t, repo.Create(ctx, newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)))
	})

	t.Run("List filters by periodicity", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		require.NoError(t, repo.Create(ctx, newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)))
		require.NoError(t, repo.Create(ctx, newSampleHabit(t, "Weekly Review", domain.PeriodicityWeekly)))

		weekly, err := repo.List(ctx, domain.PeriodicityWeekly)
		require.NoError(t, err)
		require.Len(t, weekly, 1)
		assert.Equal(t, "Weekly Review", weekly[0].Name)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Update enforces optimistic locking", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, repo.Create(ctx, h))

		h.Name = "Evening Run"
		require.NoError(t, repo.Update(ctx, h))
		assert.Equal(t, 2, h.Version)

		stale := *h
		stale.Version = 1
		err := repo.Update(ctx, &stale)
		assert.ErrorIs(t, err, domain.ErrHabitConflict)
	})

	t.Run("Update of missing habit reports not found", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		ghost := newSampleHabit(t, "Ghost", domain.PeriodicityDaily)
		err := repo.Update(ctx, ghost)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Delete cascades to check-offs", func(t *testing.T) {
		store := setupSQLiteStore(t)
		habits := NewSQLiteHabitRepository(store)
		checkOffs := NewSQLiteCheckOffRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, habits.Create(ctx, h))
		require.NoError(t, checkOffs.Create(ctx, domain.NewCheckOff(h.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))))

		require.NoError(t, habits.Delete(ctx, h.ID))

		_, err := habits.GetByID(ctx, h.ID)
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		remaining, err := checkOffs.ListByHabitID(ctx, h.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("UpdateStreaks persists without bumping version", func(t *testing.T) {
		store := setupSQLiteStore(t)
		repo := NewSQLiteHabitRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, repo.Create(ctx, h))

		require.NoError(t, repo.UpdateStreaks(ctx, h.ID, 4, 9))

		got, err := repo.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.CurrentStreak)
		assert.Equal(t, 9, got.LongestStreak)
		assert.Equal(t, 1, got.Version)
	})
}

func TestSQLiteCheckOffRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("ListByHabitID returns ascending dates", func(t *testing.T) {
		store := setupSQLiteStore(t)
		habits := NewSQLiteHabitRepository(store)
		checkOffs := NewSQLiteCheckOffRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, habits.Create(ctx, h))

		for _, day := range []int{5, 2, 9} {
			c := domain.NewCheckOff(h.ID, time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
			require.NoError(t, checkOffs.Create(ctx, c))
		}

		list, err := checkOffs.ListByHabitID(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.True(t, list[0].Date.Before(list[1].Date))
		assert.True(t, list[1].Date.Before(list[2].Date))
	})

	t.Run("ListByHabitIDWithRange bounds inclusively", func(t *testing.T) {
		store := setupSQLiteStore(t)
		habits := NewSQLiteHabitRepository(store)
		checkOffs := NewSQLiteCheckOffRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, habits.Create(ctx, h))

		for _, day := range []int{1, 15, 31} {
			c := domain.NewCheckOff(h.ID, time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
			require.NoError(t, checkOffs.Create(ctx, c))
		}

		list, err := checkOffs.ListByHabitIDWithRange(ctx, h.ID,
			time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 15, list[0].Date.Day())
		assert.Equal(t, 31, list[1].Date.Day())
	})

	t.Run("Delete is soft and idempotent errors", func(t *testing.T) {
		store := setupSQLiteStore(t)
		habits := NewSQLiteHabitRepository(store)
		checkOffs := NewSQLiteCheckOffRepository(store)

		h := newSampleHabit(t, "Morning Run", domain.PeriodicityDaily)
		require.NoError(t, habits.Create(ctx, h))

		c := domain.NewCheckOff(h.ID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, checkOffs.Create(ctx, c))

		require.NoError(t, checkOffs.Delete(ctx, c.ID))

		_, err := checkOffs.GetByID(ctx, c.ID)
		assert.True(t, errors.Is(err, domain.ErrCheckOffNotFound))

		err = checkOffs.Delete(ctx, c.ID)
		assert.ErrorIs(t, err, domain.ErrCheckOffNotFound)
	})
}
