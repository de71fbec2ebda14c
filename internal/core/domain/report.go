package domain

// HabitStatus describes a habit's completion state in the current and
// previous period.
type HabitStatus string

const (
	// StatusStreak: checked off in the current period.
	StatusStreak HabitStatus = "streak"
	// StatusPending: not yet checked off in the current period, but the
	// previous period was covered, so the streak is still alive.
	StatusPending HabitStatus = "pending"
	// StatusBroken: at least one full period elapsed without a check-off.
	StatusBroken HabitStatus = "broken"
)

// StreakResult counts periods, not raw check-off dates. Longest is a pure
// function of history; Current additionally decays to zero once a full
// period passes without a completion.
type StreakResult struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// HealthStatus is the liveness verdict for a habit at a given reference
// time. DaysSinceLast is nil when the habit has never been checked off.
type HealthStatus struct {
	Status        HabitStatus `json:"status"`
	DaysSinceLast *int        `json:"days_since_last_checkoff"`

	// FutureDated flags a check-off dated after the reference time. The
	// day count is clamped to zero in that case; callers decide how to
	// display it.
	FutureDated bool `json:"future_dated,omitempty"`
}

// Active reports whether the habit is still considered on track.
func (h HealthStatus) Active() bool {
	return h.Status != StatusBroken
}

// HabitReport bundles every derived metric for one habit.
type HabitReport struct {
	HabitID     string      `json:"habit_id"`
	Name        string      `json:"name"`
	Periodicity Periodicity `json:"periodicity"`
	StartDate   string      `json:"start_date"`

	Streaks StreakResult `json:"streaks"`
	Health  HealthStatus `json:"health"`

	// CompletionRate is distinct completed periods over expected periods
	// since the start date, as a percentage.
	CompletionRate   float64 `json:"completion_rate"`
	TimesCompleted   int     `json:"times_completed"`
	PeriodsCompleted int     `json:"periods_completed"`
	LastCheckOff     *string `json:"last_check_off,omitempty"`
}

// Overview aggregates reports across habits for the reporting surface.
type Overview struct {
	AsOf        string        `json:"as_of"`
	TotalHabits int           `json:"total_habits"`
	Habits      []HabitReport `json:"habits"`

	LongestStreakHabit string `json:"longest_streak_habit,omitempty"`
	LongestStreak      int    `json:"longest_streak"`
}

// BrokenHabit is one row of the "needs attention" report.
type BrokenHabit struct {
	Name         string      `json:"name"`
	Periodicity  Periodicity `json:"periodicity"`
	Status       HabitStatus `json:"status"`
	LastCheckOff *string     `json:"last_check_off,omitempty"`
	DaysSince    *int        `json:"days_since,omitempty"`
}
