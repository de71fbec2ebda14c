package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS habits (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    periodicity    TEXT NOT NULL,
    start_date     TIMESTAMP NOT NULL,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    version        INTEGER NOT NULL DEFAULT 1,
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP NOT NULL,
    deleted_at     TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_habits_name_active
    ON habits(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS check_offs (
    id         TEXT PRIMARY KEY,
    habit_id   TEXT NOT NULL REFERENCES habits(id),
    date       TIMESTAMP NOT NULL,
    notes      TEXT NOT NULL DEFAULT '',
    version    INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_check_offs_habit_date
    ON check_offs(habit_id, date);
`

// SQLiteStore is the embedded single-file alternative to Postgres. It
// owns the database handle and bootstraps the schema on open; the habit
// and check-off repositories share it.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}

	// modernc's driver is not safe for concurrent writers on one handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for health checks.
func (s *SQLiteStore) DB() *sqlx.DB {
	return s.db
}

func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type SQLiteHabitRepository struct {
	store *SQLiteStore
}

func NewSQLiteHabitRepository(store *SQLiteStore) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{store: store}
}

func (r *SQLiteHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
		INSERT INTO habits (
			id, name, description, periodicity, start_date,
			current_streak, longest_streak,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :name, :description, :periodicity, :start_date,
			:current_streak, :longest_streak,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.store.db.NamedExecContext(ctx, query, h)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrHabitExists, h.Name)
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var h domain.Habit
	err := r.store.db.GetContext(ctx, &h,
		`SELECT * FROM habits WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *SQLiteHabitRepository) GetByName(ctx context.Context, name string) (*domain.Habit, error) {
	var h domain.Habit
	err := r.store.db.GetContext(ctx, &h,
		`SELECT * FROM habits WHERE name = ? AND deleted_at IS NULL`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *SQLiteHabitRepository) List(ctx context.Context, periodicity domain.Periodicity) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}

	if periodicity != "" {
		err := r.store.db.SelectContext(ctx, &habits,
			`SELECT * FROM habits WHERE deleted_at IS NULL AND periodicity = ? ORDER BY name ASC`,
			periodicity)
		return habits, err
	}

	err := r.store.db.SelectContext(ctx, &habits,
		`SELECT * FROM habits WHERE deleted_at IS NULL ORDER BY name ASC`)
	return habits, err
}

func (r *SQLiteHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	now := time.Now().UTC()

	res, err := r.store.db.ExecContext(ctx, `
		UPDATE habits SET
			name = ?, description = ?, periodicity = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ? AND deleted_at IS NULL`,
		h.Name, h.Description, h.Periodicity, now, h.ID, h.Version)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrHabitExists, h.Name)
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, h.ID); getErr != nil {
			return getErr
		}
		return domain.ErrHabitConflict
	}

	h.Version++
	h.UpdatedAt = now
	return nil
}

func (r *SQLiteHabitRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()

	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE habits
		SET deleted_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE check_offs
		SET deleted_at = ?, updated_at = ?
		WHERE habit_id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("cascade delete failed: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	res, err := r.store.db.ExecContext(ctx, `
		UPDATE habits
		SET current_streak = ?, longest_streak = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		current, longest, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("streak update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

type SQLiteCheckOffRepository struct {
	store *SQLiteStore
}

func NewSQLiteCheckOffRepository(store *SQLiteStore) *SQLiteCheckOffRepository {
	return &SQLiteCheckOffRepository{store: store}
}

func (r *SQLiteCheckOffRepository) Create(ctx context.Context, c *domain.CheckOff) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO check_offs (
			id, habit_id, date, notes,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :habit_id, :date, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	if _, err := r.store.db.NamedExecContext(ctx, query, c); err != nil {
		if isSQLiteUniqueViolation(err) {
			return domain.ErrCheckOffConflict
		}
		return fmt.Errorf("failed to insert check-off: %w", err)
	}
	return nil
}

func (r *SQLiteCheckOffRepository) GetByID(ctx context.Context, id string) (*domain.CheckOff, error) {
	var c domain.CheckOff
	err := r.store.db.GetContext(ctx, &c,
		`SELECT * FROM check_offs WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckOffNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteCheckOffRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CheckOff, error) {
	checkOffs := []*domain.CheckOff{}
	err := r.store.db.SelectContext(ctx, &checkOffs, `
		SELECT * FROM check_offs
		WHERE habit_id = ? AND deleted_at IS NULL
		ORDER BY date ASC`, habitID)
	return checkOffs, err
}

func (r *SQLiteCheckOffRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckOff, error) {
	checkOffs := []*domain.CheckOff{}
	err := r.store.db.SelectContext(ctx, &checkOffs, `
		SELECT * FROM check_offs
		WHERE habit_id = ? AND deleted_at IS NULL
		  AND date >= ? AND date <= ?
		ORDER BY date ASC`, habitID, from, to)
	return checkOffs, err
}

func (r *SQLiteCheckOffRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()

	res, err := r.store.db.ExecContext(ctx, `
		UPDATE check_offs
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCheckOffNotFound
	}
	return nil
}
