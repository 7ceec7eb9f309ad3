package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/meltforce/liftlog/internal/models"
)

// CreateExercise inserts an exercise at the end of the day's ordering and
// returns the stored row.
func (db *DB) CreateExercise(ctx context.Context, dayID int64, ne models.NewExercise) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (day_id, name, target_sets, target_reps, target_weight, target_rpe, notes, exercise_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7,
		         (SELECT COALESCE(MAX(exercise_order) + 1, 0) FROM exercises WHERE day_id = $1))
		 RETURNING id, day_id, name, target_sets, target_reps, target_weight, target_rpe, notes, exercise_order`,
		dayID, ne.Name, ne.TargetSets, ne.TargetReps, ne.TargetWeight, ne.TargetRPE, ne.Notes).
		Scan(&e.ID, &e.DayID, &e.Name, &e.TargetSets, &e.TargetReps,
			&e.TargetWeight, &e.TargetRPE, &e.Notes, &e.ExerciseOrder)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}

// patchClauses builds the SET clause for an exercise patch from explicitly
// enumerated columns. Returns nil when the patch is empty.
func patchClauses(p models.ExercisePatch) ([]string, []any) {
	var cols []string
	var args []any

	add := func(col string, v any) {
		cols = append(cols, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, v)
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.TargetSets != nil {
		add("target_sets", *p.TargetSets)
	}
	if p.TargetReps != nil {
		add("target_reps", *p.TargetReps)
	}
	if p.TargetWeight != nil {
		add("target_weight", *p.TargetWeight)
	}
	if p.TargetRPE != nil {
		add("target_rpe", *p.TargetRPE)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	return cols, args
}

// UpdateExercise applies a typed partial update. An empty patch is a no-op.
// Historical set_logs keep their exercise_name snapshots; a rename here never
// rewrites them.
func (db *DB) UpdateExercise(ctx context.Context, exerciseID int64, p models.ExercisePatch) error {
	cols, args := patchClauses(p)
	if len(cols) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE exercises SET %s WHERE id = $%d`,
		strings.Join(cols, ", "), len(args)+1)
	args = append(args, exerciseID)

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating exercise %d: %w", exerciseID, ErrNotFound)
	}
	return nil
}

// DeleteExercise removes an exercise from its day.
func (db *DB) DeleteExercise(ctx context.Context, exerciseID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, exerciseID)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting exercise %d: %w", exerciseID, ErrNotFound)
	}
	return nil
}

// ReorderExercises rewrites exercise_order for every listed exercise to its
// index in orderedIDs, in one transaction. If any id does not belong to the
// day the whole reorder rolls back.
func (db *DB) ReorderExercises(ctx context.Context, dayID int64, orderedIDs []int64) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, id := range orderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE exercises SET exercise_order = $1 WHERE id = $2 AND day_id = $3`,
			i, id, dayID)
		if err != nil {
			return fmt.Errorf("reordering exercise %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reordering exercise %d in day %d: %w", id, dayID, ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}
