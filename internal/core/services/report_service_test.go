package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
	"github.com/comitanigiacomo/cadence-engine/internal/core/services"
)

type StubHabitRepo struct {
	mock.Mock
}

func (m *StubHabitRepo) Create(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *StubHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if h := args.Get(0); h != nil {
		return h.(*domain.Habit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubHabitRepo) GetByName(ctx context.Context, name string) (*domain.Habit, error) {
	args := m.Called(ctx, name)
	if h := args.Get(0); h != nil {
		return h.(*domain.Habit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubHabitRepo) List(ctx context.Context, periodicity domain.Periodicity) ([]*domain.Habit, error) {
	args := m.Called(ctx, periodicity)
	if h := args.Get(0); h != nil {
		return h.([]*domain.Habit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubHabitRepo) Update(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *StubHabitRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *StubHabitRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	return m.Called(ctx, id, current, longest).Error(0)
}

type StubCheckOffRepo struct {
	mock.Mock
}

func (m *StubCheckOffRepo) Create(ctx context.Context, c *domain.CheckOff) error {
	return m.Called(ctx, c).Error(0)
}

func (m *StubCheckOffRepo) GetByID(ctx context.Context, id string) (*domain.CheckOff, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.CheckOff), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubCheckOffRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CheckOff, error) {
	args := m.Called(ctx, habitID)
	if c := args.Get(0); c != nil {
		return c.([]*domain.CheckOff), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubCheckOffRepo) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckOff, error) {
	args := m.Called(ctx, habitID, from, to)
	if c := args.Get(0); c != nil {
		return c.([]*domain.CheckOff), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StubCheckOffRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func checkOffOn(habitID string, y int, m time.Month, d int) *domain.CheckOff {
	return &domain.CheckOff{
		ID:      "c-" + habitID,
		HabitID: habitID,
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func TestReportService_HabitReport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	habit := &domain.Habit{
		ID:          "h1",
		Name:        "Read Book",
		Periodicity: domain.PeriodicityDaily,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success: full metrics for a live streak", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habitRepo.On("GetByName", ctx, "Read Book").Return(habit, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{
			checkOffOn("h1", 2024, 1, 1),
			checkOffOn("h1", 2024, 1, 2),
			checkOffOn("h1", 2024, 1, 5),
		}, nil)

		report, err := svc.HabitReport(ctx, "Read Book", now)

		require.NoError(t, err)
		assert.Equal(t, 2, report.Streaks.Longest)
		assert.Equal(t, 1, report.Streaks.Current)
		assert.Equal(t, domain.StatusStreak, report.Health.Status)
		assert.Equal(t, 3, report.TimesCompleted)
		assert.Equal(t, 3, report.PeriodsCompleted)
		assert.InDelta(t, 60.0, report.CompletionRate, 0.01, "3 of 5 expected days")
		require.NotNil(t, report.LastCheckOff)
		assert.Equal(t, "2024-01-05", *report.LastCheckOff)
	})

	t.Run("Success: never checked off", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habitRepo.On("GetByName", ctx, "Read Book").Return(habit, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{}, nil)

		report, err := svc.HabitReport(ctx, "Read Book", now)

		require.NoError(t, err)
		assert.Equal(t, domain.StreakResult{}, report.Streaks)
		assert.Equal(t, domain.StatusBroken, report.Health.Status)
		assert.Nil(t, report.Health.DaysSinceLast)
		assert.Nil(t, report.LastCheckOff)
		assert.Zero(t, report.CompletionRate)
	})

	t.Run("Fail: repo error propagates", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		dbErr := errors.New("db connection lost")
		habitRepo.On("GetByName", ctx, "Read Book").Return(nil, dbErr)

		_, err := svc.HabitReport(ctx, "Read Book", now)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestReportService_Overview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	t.Run("Success: sorted by name with overall longest streak", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		habits := []*domain.Habit{
			{ID: "h2", Name: "Workout", Periodicity: domain.PeriodicityDaily, StartDate: start},
			{ID: "h1", Name: "Read Book", Periodicity: domain.PeriodicityDaily, StartDate: start},
		}
		habitRepo.On("List", ctx, domain.Periodicity("")).Return(habits, nil)

		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{
			checkOffOn("h1", 2024, 1, 4),
		}, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h2").Return([]*domain.CheckOff{
			checkOffOn("h2", 2024, 1, 3),
			checkOffOn("h2", 2024, 1, 4),
			checkOffOn("h2", 2024, 1, 5),
		}, nil)

		overview, err := svc.Overview(ctx, "", now)

		require.NoError(t, err)
		assert.Equal(t, "2024-01-05", overview.AsOf)
		assert.Equal(t, 2, overview.TotalHabits)
		require.Len(t, overview.Habits, 2)
		assert.Equal(t, "Read Book", overview.Habits[0].Name)
		assert.Equal(t, "Workout", overview.Habits[1].Name)
		assert.Equal(t, "Workout", overview.LongestStreakHabit)
		assert.Equal(t, 3, overview.LongestStreak)
	})

	t.Run("Edge Case: no habits", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habitRepo.On("List", ctx, domain.Periodicity("")).Return([]*domain.Habit{}, nil)

		overview, err := svc.Overview(ctx, "", now)

		require.NoError(t, err)
		assert.Zero(t, overview.TotalHabits)
		assert.Empty(t, overview.Habits)
		assert.Zero(t, overview.LongestStreak)
	})

	t.Run("Fail: invalid periodicity filter", func(t *testing.T) {
		svc := services.NewReportService(new(StubHabitRepo), new(StubCheckOffRepo))

		_, err := svc.Overview(ctx, "yearly", now)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriodicity)
	})
}

func TestReportService_BrokenHabits(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)

	t.Run("Success: broken habits sorted worst first", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habits := []*domain.Habit{
			{ID: "h1", Name: "Read Book", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "h2", Name: "Workout", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "h3", Name: "Meditate", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}
		habitRepo.On("List", ctx, domain.Periodicity("")).Return(habits, nil)

		// Read Book: 5 days stale. Workout: checked off today, healthy.
		// Meditate: 10 days stale, worst.
		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{checkOffOn("h1", 2024, 1, 15)}, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h2").Return([]*domain.CheckOff{checkOffOn("h2", 2024, 1, 20)}, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h3").Return([]*domain.CheckOff{checkOffOn("h3", 2024, 1, 10)}, nil)

		broken, err := svc.BrokenHabits(ctx, now)

		require.NoError(t, err)
		require.Len(t, broken, 2)
		assert.Equal(t, "Meditate", broken[0].Name)
		assert.Equal(t, 10, *broken[0].DaysSince)
		assert.Equal(t, "Read Book", broken[1].Name)
		assert.Equal(t, 5, *broken[1].DaysSince)
		for _, b := range broken {
			assert.Equal(t, domain.StatusBroken, b.Status)
		}
	})

	t.Run("Success: never-checked-off habits sort on top", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habits := []*domain.Habit{
			{ID: "h1", Name: "Read Book", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "h2", Name: "Journal", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}
		habitRepo.On("List", ctx, domain.Periodicity("")).Return(habits, nil)

		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{checkOffOn("h1", 2024, 1, 15)}, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h2").Return([]*domain.CheckOff{}, nil)

		broken, err := svc.BrokenHabits(ctx, now)

		require.NoError(t, err)
		require.Len(t, broken, 2)
		assert.Equal(t, "Journal", broken[0].Name, "never checked off goes first")
		assert.Nil(t, broken[0].DaysSince)
		assert.Nil(t, broken[0].LastCheckOff)
	})

	t.Run("Success: pending habits are listed next to broken ones", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		checkOffRepo := new(StubCheckOffRepo)
		svc := services.NewReportService(habitRepo, checkOffRepo)

		habits := []*domain.Habit{
			// Created today, never checked off: still inside the grace
			// window, so pending rather than broken.
			{ID: "h1", Name: "Stretch", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
			{ID: "h2", Name: "Read Book", Periodicity: domain.PeriodicityDaily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}
		habitRepo.On("List", ctx, domain.Periodicity("")).Return(habits, nil)

		checkOffRepo.On("ListByHabitID", ctx, "h1").Return([]*domain.CheckOff{}, nil)
		checkOffRepo.On("ListByHabitID", ctx, "h2").Return([]*domain.CheckOff{checkOffOn("h2", 2024, 1, 15)}, nil)

		broken, err := svc.BrokenHabits(ctx, now)

		require.NoError(t, err)
		require.Len(t, broken, 2)
		assert.Equal(t, "Stretch", broken[0].Name, "never checked off goes first")
		assert.Equal(t, domain.StatusPending, broken[0].Status)
		assert.Equal(t, domain.StatusBroken, broken[1].Status)
	})

	t.Run("Fail: repo error propagates", func(t *testing.T) {
		habitRepo := new(StubHabitRepo)
		svc := services.NewReportService(habitRepo, new(StubCheckOffRepo))

		dbErr := errors.New("query timeout")
		habitRepo.On("List", ctx, domain.Periodicity("")).Return(nil, dbErr)

		_, err := svc.BrokenHabits(ctx, now)
		assert.ErrorIs(t, err, dbErr)
	})
}
