package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/analytics"
	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CheckOffRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.CheckOff, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker keeps the stored streak snapshot in sync with the
// check-off log. The snapshot is only a cache for cheap list views: the
// reporting layer always recomputes from history at query time.
type StreakWorker struct {
	habitRepo    HabitRepository
	checkOffRepo CheckOffRepository
	jobs         chan StreakJob
}

func NewStreakWorker(habitRepo HabitRepository, checkOffRepo CheckOffRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:    habitRepo,
		checkOffRepo: checkOffRepo,
		jobs:         make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	checkOffs, err := w.checkOffRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching check-offs for %s: %v", job.HabitID, err)
		return
	}

	result, err := recalculate(habit.Periodicity, checkOffs, time.Now().UTC())
	if err != nil {
		log.Printf("Worker Error recomputing streaks for %s: %v", job.HabitID, err)
		return
	}

	if habit.CurrentStreak != result.Current || habit.LongestStreak != result.Longest {
		if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, result.Current, result.Longest); err != nil {
			log.Printf("Worker Failed to update streaks for %s: %v", job.HabitID, err)
		} else {
			log.Printf("Streaks updated for %s: Current=%d, Longest=%d", habit.Name, result.Current, result.Longest)
		}
	}
}

func recalculate(periodicity domain.Periodicity, checkOffs []*domain.CheckOff, now time.Time) (domain.StreakResult, error) {
	dates := make([]time.Time, 0, len(checkOffs))
	for _, c := range checkOffs {
		dates = append(dates, c.Date)
	}

	periods := analytics.DistinctPeriods(dates, periodicity)
	return analytics.ComputeStreaks(periodicity, periods, now)
}
