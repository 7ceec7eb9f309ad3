package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// CreateProgram inserts a program and returns the stored row.
func (db *DB) CreateProgram(ctx context.Context, name, description string) (*models.Program, error) {
	var p models.Program
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO programs (name, description) VALUES ($1, $2)
		 RETURNING id, name, description, created_at`,
		name, description).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting program: %w", err)
	}
	return &p, nil
}

// ListPrograms returns all programs, newest first, without their week trees.
func (db *DB) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, created_at FROM programs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProgramFull fetches a program with its complete week → day → exercise
// tree, ordered by week_number, day_order and exercise_order.
func (db *DB) GetProgramFull(ctx context.Context, programID int64) (*models.Program, error) {
	var p models.Program
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM programs WHERE id = $1`,
		programID).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("program %d: %w", programID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}

	weekRows, err := db.Pool.Query(ctx,
		`SELECT id, program_id, week_number FROM program_weeks
		 WHERE program_id = $1 ORDER BY week_number`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying weeks: %w", err)
	}
	defer weekRows.Close()

	p.Weeks = []models.Week{}
	for weekRows.Next() {
		var w models.Week
		if err := weekRows.Scan(&w.ID, &w.ProgramID, &w.WeekNumber); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		p.Weeks = append(p.Weeks, w)
	}
	if err := weekRows.Err(); err != nil {
		return nil, err
	}

	for i := range p.Weeks {
		days, err := db.weekDays(ctx, p.Weeks[i].ID)
		if err != nil {
			return nil, err
		}
		p.Weeks[i].Days = days
	}

	return &p, nil
}

func (db *DB) weekDays(ctx context.Context, weekID int64) ([]models.Day, error) {
	dayRows, err := db.Pool.Query(ctx,
		`SELECT id, week_id, name, day_order FROM program_days
		 WHERE week_id = $1 ORDER BY day_order`, weekID)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer dayRows.Close()

	days := []models.Day{}
	for dayRows.Next() {
		var d models.Day
		if err := dayRows.Scan(&d.ID, &d.WeekID, &d.Name, &d.DayOrder); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		days = append(days, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	for i := range days {
		exercises, err := db.DayExercises(ctx, days[i].ID)
		if err != nil {
			return nil, err
		}
		days[i].Exercises = exercises
	}
	return days, nil
}

// DeleteProgram removes a program and, via cascade, all of its weeks, days
// and exercises. Workout history is untouched.
func (db *DB) DeleteProgram(ctx context.Context, programID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, programID)
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting program %d: %w", programID, ErrNotFound)
	}
	return nil
}

// CreateWeek appends a week to a program.
func (db *DB) CreateWeek(ctx context.Context, programID int64, weekNumber int) (*models.Week, error) {
	var w models.Week
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO program_weeks (program_id, week_number) VALUES ($1, $2)
		 RETURNING id, program_id, week_number`,
		programID, weekNumber).Scan(&w.ID, &w.ProgramID, &w.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("inserting week: %w", err)
	}
	return &w, nil
}

// DeleteWeek removes a week and its days and exercises.
func (db *DB) DeleteWeek(ctx context.Context, weekID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM program_weeks WHERE id = $1`, weekID)
	if err != nil {
		return fmt.Errorf("deleting week: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting week %d: %w", weekID, ErrNotFound)
	}
	return nil
}
