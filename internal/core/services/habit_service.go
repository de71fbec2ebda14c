package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
	"github.com/comitanigiacomo/cadence-engine/internal/core/workers"
)

type HabitService struct {
	repo         domain.HabitRepository
	checkOffRepo domain.CheckOffRepository
	worker       *workers.StreakWorker
}

func NewHabitService(repo domain.HabitRepository, checkOffRepo domain.CheckOffRepository, worker *workers.StreakWorker) *HabitService {
	return &HabitService{
		repo:         repo,
		checkOffRepo: checkOffRepo,
		worker:       worker,
	}
}

type CreateHabitInput struct {
	Name        string
	Description string
	Periodicity domain.Periodicity
	StartDate   time.Time
}

type UpdateHabitInput struct {
	Name        string
	NewName     string
	Description string
	Periodicity domain.Periodicity
	Version     int
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.Name, input.Description, input.Periodicity, input.StartDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, habit.Name)
	if err != nil && !errors.Is(err, domain.ErrHabitNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrHabitExists, habit.Name)
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByName(ctx context.Context, name string) (*domain.Habit, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *HabitService) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns active habits sorted by name, optionally filtered by
// periodicity (empty means all).
func (s *HabitService) List(ctx context.Context, periodicity domain.Periodicity) ([]*domain.Habit, error) {
	if periodicity != "" && !periodicity.Valid() {
		return nil, domain.ErrInvalidPeriodicity
	}

	habits, err := s.repo.List(ctx, periodicity)
	if err != nil {
		return nil, err
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Name < habits[j].Name
	})

	return habits, nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	name := habit.Name
	if input.NewName != "" {
		name = input.NewName
	}
	periodicity := habit.Periodicity
	if input.Periodicity != "" {
		periodicity = input.Periodicity
	}

	periodicityChanged := periodicity != habit.Periodicity

	if err := habit.Update(name, input.Description, periodicity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	// Changing the cadence re-buckets the whole history, so the stored
	// streak snapshot is stale until recomputed.
	if periodicityChanged {
		s.worker.Enqueue(habit.ID)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, name string) error {
	habit, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, habit.ID)
}

// CheckOff records a completion for the named habit. A zero date means
// "now". Future dates are rejected here at the write boundary; the
// analytics engine itself stays tolerant of them when they appear in
// stored history.
func (s *HabitService) CheckOff(ctx context.Context, name string, date time.Time, notes string, now time.Time) (*domain.CheckOff, error) {
	habit, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = now
	}

	checkOff := domain.NewCheckOff(habit.ID, date)
	checkOff.Notes = notes

	if err := checkOff.Validate(); err != nil {
		return nil, err
	}

	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if checkOff.Date.After(today) {
		return nil, domain.ErrCheckOffFuture
	}

	if err := s.checkOffRepo.Create(ctx, checkOff); err != nil {
		return nil, err
	}

	s.worker.Enqueue(habit.ID)

	return checkOff, nil
}

func (s *HabitService) History(ctx context.Context, name string, from, to time.Time) ([]*domain.CheckOff, error) {
	habit, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.checkOffRepo.ListByHabitID(ctx, habit.ID)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}

	return s.checkOffRepo.ListByHabitIDWithRange(ctx, habit.ID, from, to)
}

func (s *HabitService) RemoveCheckOff(ctx context.Context, id string) error {
	checkOff, err := s.checkOffRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkOffRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.worker.Enqueue(checkOff.HabitID)

	return nil
}
