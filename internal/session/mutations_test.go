package session

import (
	"context"
	"errors"
	"testing"

	"github.com/meltforce/liftlog/internal/models"
)

// TestAddExercise verifies the exercise is persisted with defaults and its
// synthesized rows appear in the session atomically with the stored id.
func TestAddExercise(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	drafts := newFakeDrafts()
	f := newTestFlow(gw, drafts)
	s, _ := f.Start(context.Background(), 1)

	ex, err := f.AddExercise(context.Background(), s, models.NewExercise{Name: "Calf Raise", TargetReps: "15"})
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	if ex.TargetSets != 3 {
		t.Errorf("target_sets = %d, want default 3", ex.TargetSets)
	}

	if len(s.Exercises) != 4 {
		t.Fatalf("len(exercises) = %d, want 4", len(s.Exercises))
	}
	added := s.find(ex.ID)
	if added == nil {
		t.Fatal("added exercise missing from session")
	}
	if len(added.Sets) != 3 {
		t.Errorf("added sets = %d, want 3 synthesized rows", len(added.Sets))
	}
	for i, set := range added.Sets {
		if set.SetNumber != i+1 || set.Weight != "" || set.Completed {
			t.Errorf("set %d = %+v", i, set)
		}
	}
	if _, ok := drafts.drafts[1][ex.ID]; !ok {
		t.Error("draft missing the added exercise")
	}
}

// TestAddExerciseValidation verifies an empty name is rejected before any
// persistence call.
func TestAddExerciseValidation(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	_, err := f.AddExercise(context.Background(), s, models.NewExercise{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(s.Exercises) != 3 {
		t.Errorf("session changed by rejected add")
	}
}

// TestAddExerciseGatewayFailure verifies a failed create leaves the session
// unchanged instead of diverging local and stored state.
func TestAddExerciseGatewayFailure(t *testing.T) {
	gw := &fakeGateway{day: testDay(), createErr: ErrTransient}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	_, err := f.AddExercise(context.Background(), s, models.NewExercise{Name: "Calf Raise"})
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if len(s.Exercises) != 3 {
		t.Errorf("len(exercises) = %d after failed add, want 3", len(s.Exercises))
	}
}

// TestRenameExercise verifies the plan update and local rename, leaving the
// stored name in past logs alone (the session only renames going forward).
func TestRenameExercise(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	if err := f.RenameExercise(context.Background(), s, 5, "Low Bar Squat"); err != nil {
		t.Fatalf("RenameExercise: %v", err)
	}
	if got := s.find(5).Exercise.Name; got != "Low Bar Squat" {
		t.Errorf("name = %q", got)
	}
	patches := gw.patches[5]
	if len(patches) != 1 || patches[0].Name == nil || *patches[0].Name != "Low Bar Squat" {
		t.Errorf("patches = %+v", patches)
	}
	// Only the name travels in the patch.
	if patches[0].TargetSets != nil || patches[0].TargetWeight != nil {
		t.Errorf("rename patched unrelated fields: %+v", patches[0])
	}
}

// TestRenameExerciseFailureRollsBack verifies a failed rename leaves the
// local name untouched.
func TestRenameExerciseFailureRollsBack(t *testing.T) {
	gw := &fakeGateway{day: testDay(), updateErr: ErrTransient}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	err := f.RenameExercise(context.Background(), s, 5, "Front Squat")
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if got := s.find(5).Exercise.Name; got != "Squat" {
		t.Errorf("name = %q, want unchanged %q", got, "Squat")
	}
}

// TestRemoveExercise verifies removal persists first, then drops the session
// entry and rewrites the draft without it.
func TestRemoveExercise(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	drafts := newFakeDrafts()
	f := newTestFlow(gw, drafts)
	s, _ := f.Start(context.Background(), 1)

	if err := f.RemoveExercise(context.Background(), s, 3); err != nil {
		t.Fatalf("RemoveExercise: %v", err)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != 3 {
		t.Errorf("deleted = %v, want [3]", gw.deleted)
	}
	if len(s.Exercises) != 2 || s.find(3) != nil {
		t.Errorf("session still holds removed exercise: %+v", s.Exercises)
	}
	if s.Exercises[0].Exercise.ID != 5 || s.Exercises[1].Exercise.ID != 8 {
		t.Errorf("remaining order disturbed: %+v", s.Exercises)
	}
	if _, ok := drafts.drafts[1][3]; ok {
		t.Error("draft still carries the removed exercise")
	}
}

// TestRemoveExerciseUnknown verifies an id outside the session is rejected
// before any persistence call.
func TestRemoveExerciseUnknown(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	if err := f.RemoveExercise(context.Background(), s, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(gw.deleted) != 0 {
		t.Error("gateway delete called for unknown exercise")
	}
}

// TestRemoveExerciseGatewayFailure verifies a failed delete leaves the
// session unchanged.
func TestRemoveExerciseGatewayFailure(t *testing.T) {
	gw := &fakeGateway{day: testDay(), deleteErr: ErrTransient}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	if err := f.RemoveExercise(context.Background(), s, 3); !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if len(s.Exercises) != 3 || s.find(3) == nil {
		t.Errorf("session changed after failed delete: %+v", s.Exercises)
	}
}

// TestAddSetWeightDefault verifies the new set copies the previous set's
// weight with empty reps and completed false, and persists the new count.
func TestAddSetWeightDefault(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	squat := s.find(5)
	squat.Sets[2].Weight = "100"

	if err := f.AddSet(context.Background(), s, 5); err != nil {
		t.Fatalf("AddSet: %v", err)
	}

	if len(squat.Sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(squat.Sets))
	}
	added := squat.Sets[3]
	if added.SetNumber != 4 {
		t.Errorf("set_number = %d, want 4", added.SetNumber)
	}
	if added.Weight != "100" {
		t.Errorf("weight = %q, want %q (copied from previous set)", added.Weight, "100")
	}
	if added.Reps != "" || added.Completed {
		t.Errorf("added set not empty: %+v", added)
	}

	patches := gw.patches[5]
	if len(patches) != 1 || patches[0].TargetSets == nil || *patches[0].TargetSets != 4 {
		t.Errorf("target_sets patches = %+v, want one with 4", patches)
	}
	if squat.Exercise.TargetSets != 4 {
		t.Errorf("session target_sets = %d, want 4", squat.Exercise.TargetSets)
	}
}

// TestAddSetFailureLeavesSessionUnchanged verifies persist-then-apply: a
// failed target_sets update adds nothing locally.
func TestAddSetFailureLeavesSessionUnchanged(t *testing.T) {
	gw := &fakeGateway{day: testDay(), updateErr: ErrTransient}
	drafts := newFakeDrafts()
	f := newTestFlow(gw, drafts)
	s, _ := f.Start(context.Background(), 1)

	if err := f.AddSet(context.Background(), s, 5); !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if len(s.find(5).Sets) != 3 {
		t.Errorf("sets = %d, want unchanged 3", len(s.find(5).Sets))
	}
	if len(drafts.drafts) != 0 {
		t.Error("draft written by failed mutation")
	}
}

// TestDeleteSetRenumbers verifies deleting the second of four sets yields a
// dense 1..3 numbering with the original third set's data at position 2.
func TestDeleteSetRenumbers(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	squat := s.find(5)
	squat.Sets = []models.SetEntry{
		{SetNumber: 1, Weight: "100"},
		{SetNumber: 2, Weight: "110"},
		{SetNumber: 3, Weight: "120"},
		{SetNumber: 4, Weight: "130"},
	}

	if err := f.DeleteSet(context.Background(), s, 5, 1); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}

	if len(squat.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(squat.Sets))
	}
	for i, set := range squat.Sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
	}
	if squat.Sets[1].Weight != "120" {
		t.Errorf("position 2 weight = %q, want original set 3's %q", squat.Sets[1].Weight, "120")
	}

	patches := gw.patches[5]
	if len(patches) != 1 || *patches[0].TargetSets != 3 {
		t.Errorf("target_sets patches = %+v, want one with 3", patches)
	}
}

// TestDeleteSetBounds verifies out-of-range indexes are rejected without a
// persistence call.
func TestDeleteSetBounds(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	if err := f.DeleteSet(context.Background(), s, 5, 3); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(gw.patches) != 0 {
		t.Error("gateway called for rejected delete")
	}
}

// TestReorder verifies the desired ordering [5,3,8] is persisted as one call
// and every exercise's order becomes its positional index.
func TestReorder(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	order := []int64{8, 5, 3}
	if err := f.Reorder(context.Background(), s, order); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	if len(gw.reordered) != 3 || gw.reordered[0] != 8 {
		t.Errorf("gateway ordering = %v", gw.reordered)
	}
	for i, se := range s.Exercises {
		if se.Exercise.ID != order[i] {
			t.Errorf("position %d = exercise %d, want %d", i, se.Exercise.ID, order[i])
		}
		if se.Exercise.ExerciseOrder != i {
			t.Errorf("exercise %d order = %d, want %d", se.Exercise.ID, se.Exercise.ExerciseOrder, i)
		}
	}
}

// TestReorderValidation verifies short lists, unknown ids and duplicates are
// all rejected before any persistence call.
func TestReorderValidation(t *testing.T) {
	gw := &fakeGateway{day: testDay()}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	cases := [][]int64{
		{5, 3},       // too short
		{5, 3, 999},  // unknown id
		{5, 5, 8},    // duplicate
	}
	for _, ids := range cases {
		if err := f.Reorder(context.Background(), s, ids); !errors.Is(err, ErrValidation) {
			t.Errorf("Reorder(%v) err = %v, want ErrValidation", ids, err)
		}
	}
	if gw.reordered != nil {
		t.Error("gateway called for rejected reorder")
	}
	if s.Exercises[0].Exercise.ID != 5 {
		t.Error("session order changed by rejected reorder")
	}
}

// TestReorderGatewayFailure verifies a failed persist leaves the session
// order unchanged.
func TestReorderGatewayFailure(t *testing.T) {
	gw := &fakeGateway{day: testDay(), reorderErr: ErrTransient}
	f := newTestFlow(gw, newFakeDrafts())
	s, _ := f.Start(context.Background(), 1)

	if err := f.Reorder(context.Background(), s, []int64{8, 5, 3}); !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if s.Exercises[0].Exercise.ID != 5 {
		t.Error("session order changed by failed reorder")
	}
}
