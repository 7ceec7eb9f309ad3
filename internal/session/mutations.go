package session

import (
	"context"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// Structural mutations persist through the gateway first and touch the local
// session only after success, so local and stored state cannot diverge. A
// returned error means the session is unchanged.

// AddExercise creates the exercise in the plan (target_sets defaults to 3,
// order appended to the end) and splices its synthesized empty rows into the
// session in the same step.
func (f *Flow) AddExercise(ctx context.Context, s *Session, ne models.NewExercise) (*models.Exercise, error) {
	if ne.Name == "" {
		return nil, fmt.Errorf("exercise name: %w", ErrValidation)
	}
	if ne.TargetSets <= 0 {
		ne.TargetSets = 3
	}

	ex, err := f.gw.CreateExercise(ctx, s.DayID, ne)
	if err != nil {
		return nil, err
	}

	s.Exercises = append(s.Exercises, &SessionExercise{
		Exercise: *ex,
		Sets:     synthesizeSets(*ex),
	})
	return ex, f.saveDraft(s)
}

// RenameExercise updates the plan name and then the session's display name.
// Historical set_logs keep the name they were logged under.
func (f *Flow) RenameExercise(ctx context.Context, s *Session, exerciseID int64, name string) error {
	if name == "" {
		return fmt.Errorf("exercise name: %w", ErrValidation)
	}
	se := s.find(exerciseID)
	if se == nil {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}

	if err := f.gw.UpdateExercise(ctx, exerciseID, models.ExercisePatch{Name: &name}); err != nil {
		return err
	}

	se.Exercise.Name = name
	return f.saveDraft(s)
}

// RemoveExercise deletes the exercise from the plan and drops its session
// entry. Logged history for it is untouched; set_logs reference names, not
// exercise rows.
func (f *Flow) RemoveExercise(ctx context.Context, s *Session, exerciseID int64) error {
	se := s.find(exerciseID)
	if se == nil {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}

	if err := f.gw.DeleteExercise(ctx, exerciseID); err != nil {
		return err
	}

	kept := make([]*SessionExercise, 0, len(s.Exercises)-1)
	for _, e := range s.Exercises {
		if e.Exercise.ID != exerciseID {
			kept = append(kept, e)
		}
	}
	s.Exercises = kept
	return f.saveDraft(s)
}

// AddSet appends a set row, defaulting its weight from the previous set (or
// the plan target when the list is empty), and persists the new set count as
// the exercise's target_sets.
func (f *Flow) AddSet(ctx context.Context, s *Session, exerciseID int64) error {
	se := s.find(exerciseID)
	if se == nil {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}

	weight := formatNum(se.Exercise.TargetWeight)
	if n := len(se.Sets); n > 0 {
		weight = se.Sets[n-1].Weight
	}

	newCount := len(se.Sets) + 1
	if err := f.gw.UpdateExercise(ctx, exerciseID, models.ExercisePatch{TargetSets: &newCount}); err != nil {
		return err
	}

	se.Exercise.TargetSets = newCount
	se.Sets = append(se.Sets, models.SetEntry{SetNumber: newCount, Weight: weight})
	return f.saveDraft(s)
}

// DeleteSet removes the set at index and renumbers the remainder to a dense
// 1..N sequence, persisting the shrunken count as target_sets.
func (f *Flow) DeleteSet(ctx context.Context, s *Session, exerciseID int64, index int) error {
	se := s.find(exerciseID)
	if se == nil {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}
	if index < 0 || index >= len(se.Sets) {
		return fmt.Errorf("set index %d: %w", index, ErrValidation)
	}

	newCount := len(se.Sets) - 1
	if err := f.gw.UpdateExercise(ctx, exerciseID, models.ExercisePatch{TargetSets: &newCount}); err != nil {
		return err
	}

	se.Exercise.TargetSets = newCount
	se.Sets = append(se.Sets[:index], se.Sets[index+1:]...)
	for i := range se.Sets {
		se.Sets[i].SetNumber = i + 1
	}
	return f.saveDraft(s)
}

// Reorder persists the full desired exercise ordering and then rearranges the
// session to match. orderedIDs must be a permutation of the session's
// exercise ids.
func (f *Flow) Reorder(ctx context.Context, s *Session, orderedIDs []int64) error {
	if len(orderedIDs) != len(s.Exercises) {
		return fmt.Errorf("ordering lists %d of %d exercises: %w",
			len(orderedIDs), len(s.Exercises), ErrValidation)
	}
	byID := make(map[int64]*SessionExercise, len(s.Exercises))
	for _, se := range s.Exercises {
		byID[se.Exercise.ID] = se
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("exercise %d not in session: %w", id, ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("exercise %d listed twice: %w", id, ErrValidation)
		}
		seen[id] = true
	}

	if err := f.gw.ReorderExercises(ctx, s.DayID, orderedIDs); err != nil {
		return err
	}

	reordered := make([]*SessionExercise, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		se := byID[id]
		se.Exercise.ExerciseOrder = i
		reordered = append(reordered, se)
	}
	s.Exercises = reordered
	return f.saveDraft(s)
}
