// Command seed fills a fresh database with demo habits and a randomized
// check-off history, for local development and demos.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/cadence-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/cadence-engine/internal/config"
	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

type sampleHabit struct {
	name        string
	description string
	periodicity domain.Periodicity
	startDelta  int // days before today
}

var sampleHabits = []sampleHabit{
	{"Morning Exercise", "30 minutes of morning workout", domain.PeriodicityDaily, 30},
	{"Read Book", "Read at least 30 minutes", domain.PeriodicityDaily, 20},
	{"Weekly Review", "Review goals and plan next week", domain.PeriodicityWeekly, 56},
	{"Deep Clean", "Deep clean the apartment", domain.PeriodicityMonthly, 90},
	{"Budget Review", "Review and adjust monthly budget", domain.PeriodicityMonthly, 60},
}

func main() {
	force := flag.Bool("force", false, "seed even if habits already exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var (
		habitRepo    domain.HabitRepository
		checkOffRepo domain.CheckOffRepository
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := sqlx.Connect("pgx", cfg.DSN())
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		habitRepo = repository.NewPostgresHabitRepository(db)
		checkOffRepo = repository.NewPostgresCheckOffRepository(db)

	case config.DriverSQLite:
		store, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer store.Close()

		habitRepo = repository.NewSQLiteHabitRepository(store)
		checkOffRepo = repository.NewSQLiteCheckOffRepository(store)
	}

	ctx := context.Background()

	existing, err := habitRepo.List(ctx, "")
	if err != nil {
		log.Fatalf("failed to list habits: %v", err)
	}
	if len(existing) > 0 && !*force {
		log.Println("Database already contains habits. Use -force to seed anyway.")
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, s := range sampleHabits {
		startDate := today.AddDate(0, 0, -s.startDelta)

		habit, err := domain.NewHabit(s.name, s.description, s.periodicity, startDate)
		if err != nil {
			log.Fatalf("invalid sample habit %q: %v", s.name, err)
		}

		if err := habitRepo.Create(ctx, habit); err != nil {
			log.Fatalf("failed to create habit %q: %v", s.name, err)
		}
		log.Printf("Created habit: %s (%s)", s.name, s.periodicity)

		seedCheckOffs(ctx, checkOffRepo, habit, today)
		log.Printf("Added sample check-offs for: %s", s.name)
	}

	log.Println("Sample data initialization complete.")
}

// seedCheckOffs walks from the habit's start date to today, one period
// at a time, completing each period with 70% probability.
func seedCheckOffs(ctx context.Context, repo domain.CheckOffRepository, habit *domain.Habit, today time.Time) {
	current := habit.StartDate

	for !current.After(today) {
		if rand.Intn(10) < 7 {
			checkOff := domain.NewCheckOff(habit.ID, current)
			if err := repo.Create(ctx, checkOff); err != nil {
				log.Printf("failed to record check-off for %s on %s: %v",
					habit.Name, current.Format("2006-01-02"), err)
			}
		}

		switch habit.Periodicity {
		case domain.PeriodicityDaily:
			current = current.AddDate(0, 0, 1)
		case domain.PeriodicityWeekly:
			current = current.AddDate(0, 0, 7)
		default:
			current = current.AddDate(0, 1, 0)
		}
	}
}
