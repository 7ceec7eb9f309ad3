package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// CreateDay inserts a training day into a week.
func (db *DB) CreateDay(ctx context.Context, weekID int64, name string, dayOrder int) (*models.Day, error) {
	var d models.Day
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO program_days (week_id, name, day_order) VALUES ($1, $2, $3)
		 RETURNING id, week_id, name, day_order`,
		weekID, name, dayOrder).Scan(&d.ID, &d.WeekID, &d.Name, &d.DayOrder)
	if err != nil {
		return nil, fmt.Errorf("inserting day: %w", err)
	}
	d.Exercises = []models.Exercise{}
	return &d, nil
}

// DeleteDay removes a day and its exercises.
func (db *DB) DeleteDay(ctx context.Context, dayID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM program_days WHERE id = $1`, dayID)
	if err != nil {
		return fmt.Errorf("deleting day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting day %d: %w", dayID, ErrNotFound)
	}
	return nil
}

// GetDayFull fetches a day with its ordered exercises and the most recent
// workout log (with sets) recorded against it, or nil when never logged.
func (db *DB) GetDayFull(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error) {
	var d models.Day
	err := db.Pool.QueryRow(ctx,
		`SELECT id, week_id, name, day_order FROM program_days WHERE id = $1`,
		dayID).Scan(&d.ID, &d.WeekID, &d.Name, &d.DayOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("day %d: %w", dayID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying day: %w", err)
	}

	d.Exercises, err = db.DayExercises(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}

	log, err := db.MostRecentLog(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}
	return &d, log, nil
}

// DayExercises returns a day's exercises ordered by exercise_order.
func (db *DB) DayExercises(ctx context.Context, dayID int64) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_id, name, target_sets, target_reps, target_weight, target_rpe, notes, exercise_order
		 FROM exercises WHERE day_id = $1 ORDER BY exercise_order, id`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.DayID, &e.Name, &e.TargetSets, &e.TargetReps,
			&e.TargetWeight, &e.TargetRPE, &e.Notes, &e.ExerciseOrder); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
