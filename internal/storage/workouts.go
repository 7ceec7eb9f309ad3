package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/liftlog/internal/models"
)

// SaveWorkout inserts one workout log and all of its set rows as a single
// transaction. Any insert failure rolls back the whole batch, so a log row
// never exists without its sets.
func (db *DB) SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error) {
	logID := uuid.New()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("starting workout save: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_logs (id, day_id, notes) VALUES ($1, $2, $3)`,
		logID, dayID, notes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout log: %w", err)
	}

	if len(rows) > 0 {
		query := `INSERT INTO set_logs (workout_log_id, exercise_name, set_number, weight, reps, rpe, is_completed) VALUES `
		args := make([]any, 0, len(rows)*7)
		valueStrings := make([]string, 0, len(rows))

		for i, r := range rows {
			base := i * 7
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			))
			args = append(args, logID, r.ExerciseName, r.SetNumber, r.Weight, r.Reps, r.RPE, r.IsCompleted)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return uuid.Nil, fmt.Errorf("inserting set logs: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing workout save: %w", err)
	}
	return logID, nil
}

// MostRecentLog returns the latest workout log for a day with its sets, or
// nil when the day has never been logged.
func (db *DB) MostRecentLog(ctx context.Context, dayID int64) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	err := db.Pool.QueryRow(ctx,
		`SELECT id, day_id, date, notes FROM workout_logs
		 WHERE day_id = $1 ORDER BY date DESC LIMIT 1`,
		dayID).Scan(&l.ID, &l.DayID, &l.Date, &l.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest log: %w", err)
	}

	l.Sets, err = db.logSets(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// RecentLogs returns the newest workout logs across all days, with sets.
func (db *DB) RecentLogs(ctx context.Context, limit int) ([]models.WorkoutLog, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_id, date, notes FROM workout_logs ORDER BY date DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent logs: %w", err)
	}
	defer rows.Close()

	var logs []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.ID, &l.DayID, &l.Date, &l.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		logs[i].Sets, err = db.logSets(ctx, logs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return logs, nil
}

func (db *DB) logSets(ctx context.Context, logID uuid.UUID) ([]models.SetLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_log_id, exercise_name, set_number, weight, reps, rpe, is_completed
		 FROM set_logs WHERE workout_log_id = $1 ORDER BY id`, logID)
	if err != nil {
		return nil, fmt.Errorf("querying set logs: %w", err)
	}
	defer rows.Close()

	sets := []models.SetLog{}
	for rows.Next() {
		var s models.SetLog
		if err := rows.Scan(&s.ID, &s.WorkoutLogID, &s.ExerciseName, &s.SetNumber,
			&s.Weight, &s.Reps, &s.RPE, &s.IsCompleted); err != nil {
			return nil, fmt.Errorf("scanning set log: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}
