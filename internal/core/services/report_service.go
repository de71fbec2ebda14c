package services

import (
	"context"
	"sort"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/analytics"
	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

// ReportService derives streaks, health, and completion metrics at query
// time. It never writes back: the engine recomputes everything from the
// check-off log snapshot it is handed.
type ReportService struct {
	habitRepo    domain.HabitRepository
	checkOffRepo domain.CheckOffRepository
}

func NewReportService(habitRepo domain.HabitRepository, checkOffRepo domain.CheckOffRepository) *ReportService {
	return &ReportService{
		habitRepo:    habitRepo,
		checkOffRepo: checkOffRepo,
	}
}

func (s *ReportService) HabitReport(ctx context.Context, name string, now time.Time) (*domain.HabitReport, error) {
	habit, err := s.habitRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	checkOffs, err := s.checkOffRepo.ListByHabitID(ctx, habit.ID)
	if err != nil {
		return nil, err
	}

	return buildReport(habit, checkOffs, now)
}

// Overview reports every habit (optionally filtered by periodicity) plus
// the single longest streak across all of them.
func (s *ReportService) Overview(ctx context.Context, periodicity domain.Periodicity, now time.Time) (*domain.Overview, error) {
	if periodicity != "" && !periodicity.Valid() {
		return nil, domain.ErrInvalidPeriodicity
	}

	habits, err := s.habitRepo.List(ctx, periodicity)
	if err != nil {
		return nil, err
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Name < habits[j].Name
	})

	overview := &domain.Overview{
		AsOf:        now.UTC().Format(analytics.DateLayout),
		TotalHabits: len(habits),
		Habits:      make([]domain.HabitReport, 0, len(habits)),
	}

	for _, habit := range habits {
		checkOffs, err := s.checkOffRepo.ListByHabitID(ctx, habit.ID)
		if err != nil {
			return nil, err
		}

		report, err := buildReport(habit, checkOffs, now)
		if err != nil {
			return nil, err
		}

		overview.Habits = append(overview.Habits, *report)

		if report.Streaks.Longest > overview.LongestStreak {
			overview.LongestStreak = report.Streaks.Longest
			overview.LongestStreakHabit = habit.Name
		}
	}

	return overview, nil
}

// BrokenHabits lists habits needing attention (broken or pending), worst
// first: sorted by days since the last check-off, descending, habits
// never checked off on top.
func (s *ReportService) BrokenHabits(ctx context.Context, now time.Time) ([]domain.BrokenHabit, error) {
	habits, err := s.habitRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var broken []domain.BrokenHabit

	for _, habit := range habits {
		checkOffs, err := s.checkOffRepo.ListByHabitID(ctx, habit.ID)
		if err != nil {
			return nil, err
		}

		last := lastCheckOffDate(checkOffs)
		health := analytics.EvaluateHealth(habit.Periodicity, habit.StartDate, last, now)
		if health.Status == domain.StatusStreak {
			continue
		}

		row := domain.BrokenHabit{
			Name:        habit.Name,
			Periodicity: habit.Periodicity,
			Status:      health.Status,
			DaysSince:   health.DaysSinceLast,
		}
		if last != nil {
			formatted := last.Format(analytics.DateLayout)
			row.LastCheckOff = &formatted
		}

		broken = append(broken, row)
	}

	sort.SliceStable(broken, func(i, j int) bool {
		di, dj := broken[i].DaysSince, broken[j].DaysSince
		if di == nil {
			return dj != nil
		}
		if dj == nil {
			return false
		}
		return *di > *dj
	})

	return broken, nil
}

func buildReport(habit *domain.Habit, checkOffs []*domain.CheckOff, now time.Time) (*domain.HabitReport, error) {
	dates := make([]time.Time, 0, len(checkOffs))
	for _, c := range checkOffs {
		dates = append(dates, c.Date)
	}

	periods := analytics.DistinctPeriods(dates, habit.Periodicity)

	streaks, err := analytics.ComputeStreaks(habit.Periodicity, periods, now)
	if err != nil {
		return nil, err
	}

	last := lastCheckOffDate(checkOffs)
	health := analytics.EvaluateHealth(habit.Periodicity, habit.StartDate, last, now)

	report := &domain.HabitReport{
		HabitID:          habit.ID,
		Name:             habit.Name,
		Periodicity:      habit.Periodicity,
		StartDate:        habit.StartDate.Format(analytics.DateLayout),
		Streaks:          streaks,
		Health:           health,
		TimesCompleted:   len(checkOffs),
		PeriodsCompleted: len(periods),
		CompletionRate:   completionRate(habit, periods, now),
	}

	if last != nil {
		formatted := last.Format(analytics.DateLayout)
		report.LastCheckOff = &formatted
	}

	return report, nil
}

// completionRate is distinct completed periods over periods elapsed since
// the start date, inclusive of the current one. Period-exact, unlike a
// 30-day month approximation.
func completionRate(habit *domain.Habit, periods []analytics.Period, now time.Time) float64 {
	startPeriod := analytics.PeriodOf(habit.StartDate, habit.Periodicity)
	nowPeriod := analytics.PeriodOf(now, habit.Periodicity)

	expected, err := analytics.PeriodsBetween(startPeriod, nowPeriod)
	if err != nil {
		// Start date in the future: nothing is expected yet.
		return 100.0
	}
	expected++

	// Future-dated periods are not counted against the expectation.
	completed := 0
	for _, p := range periods {
		if _, err := analytics.PeriodsBetween(p, nowPeriod); err == nil {
			completed++
		}
	}

	rate := float64(completed) / float64(expected) * 100
	if rate > 100 {
		rate = 100
	}
	return rate
}

func lastCheckOffDate(checkOffs []*domain.CheckOff) *time.Time {
	var last *time.Time
	for _, c := range checkOffs {
		if last == nil || c.Date.After(*last) {
			d := c.Date
			last = &d
		}
	}
	return last
}
