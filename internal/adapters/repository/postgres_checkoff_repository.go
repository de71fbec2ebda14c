package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/cadence-engine/internal/core/domain"
)

type PostgresCheckOffRepository struct {
	db *sqlx.DB
}

func NewPostgresCheckOffRepository(db *sqlx.DB) *PostgresCheckOffRepository {
	return &PostgresCheckOffRepository{db: db}
}

func (r *PostgresCheckOffRepository) Create(ctx context.Context, c *domain.CheckOff) error {
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

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return domain.ErrHabitNotFound
			}
			if pqErr.Code == "23505" {
				return domain.ErrCheckOffConflict
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCheckOffRepository) GetByID(ctx context.Context, id string) (*domain.CheckOff, error) {
	var c domain.CheckOff
	query := `SELECT * FROM check_offs WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckOffNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCheckOffRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CheckOff, error) {
	checkOffs := []*domain.CheckOff{}

	query := `
		SELECT * FROM check_offs
		WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &checkOffs, query, habitID); err != nil {
		return nil, err
	}
	return checkOffs, nil
}

func (r *PostgresCheckOffRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.CheckOff, error) {
	checkOffs := []*domain.CheckOff{}

	query := `
		SELECT * FROM check_offs
		WHERE habit_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND deleted_at IS NULL
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &checkOffs, query, habitID, from, to); err != nil {
		return nil, err
	}
	return checkOffs, nil
}

func (r *PostgresCheckOffRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE check_offs
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
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
