package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

// InMemoryHabitRepository backs local development and tests. It applies
// the same uniqueness and versioning rules as the SQL stores.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.store {
		if h.Name == habit.Name {
			return domain.ErrHabitExists
		}
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) GetByName(ctx context.Context, name string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.store {
		if h.Name == name {
			return h, nil
		}
	}
	return nil, domain.ErrHabitNotFound
}

func (r *InMemoryHabitRepository) List(ctx context.Context, periodicity domain.Periodicity) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if periodicity != "" && h.Periodicity != periodicity {
			continue
		}
		habits = append(habits, h)
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Name < habits[j].Name
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[habit.ID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	if existing.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}

	habit.CurrentStreak = current
	habit.LongestStreak = longest
	habit.UpdatedAt = time.Now().UTC()
	return nil
}

type InMemoryCheckOffRepository struct {
	store map[string]*domain.CheckOff

	mu sync.RWMutex
}

func NewInMemoryCheckOffRepository() *InMemoryCheckOffRepository {
	return &InMemoryCheckOffRepository{
		store: make(map[string]*domain.CheckOff),
	}
}

func (r *InMemoryCheckOffRepository) Create(ctx context.Context, checkOff *domain.CheckOff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if checkOff.ID == "" {
		checkOff.ID = uuid.NewString()
	}

	r.store[checkOff.ID] = checkOff
	return nil
}

func (r *InMemoryCheckOffRepository) GetByID(ctx context.Context, id string) (*domain.CheckOff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkOff, ok := r.store[id]
	if !ok {
		return nil, domain.ErrCheckOffNotFound
	}
	return checkOff, nil
}

func (r *InMemoryCheckOffRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CheckOff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkOffs := []*domain.CheckOff{}
	for _, c := range r.store {
		if c.HabitID == habitID {
			checkOffs = append(checkOffs, c)
		}
	}

	sort.Slice(checkOffs, func(i, j int) bool {
		return checkOffs[i].Date.Before(checkOffs[j].Date)
	})

	return checkOffs, nil
}

func (r *InMemoryCheckOffRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckOff, error) {
	all, err := r.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	checkOffs := []*domain.CheckOff{}
	for _, c := range all {
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		checkOffs = append(checkOffs, c)
	}
	return checkOffs, nil
}

func (r *InMemoryCheckOffRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrCheckOffNotFound
	}

	delete(r.store, id)
	return nil
}
