package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a multi-week training plan. Weeks is populated only by the
// full-tree fetch; list queries leave it nil.
type Program struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Weeks       []Week    `json:"weeks,omitempty"`
}

// Week groups the training days of one program week. WeekNumber is a display
// label; the schema does not enforce uniqueness per program.
type Week struct {
	ID         int64 `json:"id"`
	ProgramID  int64 `json:"program_id"`
	WeekNumber int   `json:"week_number"`
	Days       []Day `json:"days,omitempty"`
}

// Day is one training session template, the unit a workout is started against.
type Day struct {
	ID        int64      `json:"id"`
	WeekID    int64      `json:"week_id"`
	Name      string     `json:"name"`
	DayOrder  int        `json:"day_order"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a planned movement within a day. TargetReps is free-form text
// ("8-12", "AMRAP"); TargetWeight and TargetRPE are nullable.
type Exercise struct {
	ID            int64    `json:"id"`
	DayID         int64    `json:"day_id"`
	Name          string   `json:"name"`
	TargetSets    int      `json:"target_sets"`
	TargetReps    string   `json:"target_reps"`
	TargetWeight  *float64 `json:"target_weight"`
	TargetRPE     *float64 `json:"target_rpe"`
	Notes         string   `json:"notes"`
	ExerciseOrder int      `json:"exercise_order"`
}

// NewExercise carries the fields needed to create an exercise. The storage
// layer assigns the id and appends the order to the end of the day.
type NewExercise struct {
	Name         string   `json:"name"`
	TargetSets   int      `json:"target_sets"`
	TargetReps   string   `json:"target_reps"`
	TargetWeight *float64 `json:"target_weight"`
	TargetRPE    *float64 `json:"target_rpe"`
	Notes        string   `json:"notes"`
}

// ExercisePatch is a typed partial update. Nil fields are left untouched;
// only the enumerated columns can ever be written.
type ExercisePatch struct {
	Name         *string  `json:"name,omitempty"`
	TargetSets   *int     `json:"target_sets,omitempty"`
	TargetReps   *string  `json:"target_reps,omitempty"`
	TargetWeight *float64 `json:"target_weight,omitempty"`
	TargetRPE    *float64 `json:"target_rpe,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// IsZero reports whether the patch carries no fields.
func (p ExercisePatch) IsZero() bool {
	return p.Name == nil && p.TargetSets == nil && p.TargetReps == nil &&
		p.TargetWeight == nil && p.TargetRPE == nil && p.Notes == nil
}

// WorkoutLog is one completed (or in-progress) session instance. DayID is a
// plain reference into the plan tree, never a cascading foreign key: history
// survives plan edits and deletions.
type WorkoutLog struct {
	ID    uuid.UUID `json:"id"`
	DayID int64     `json:"day_id"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
	Sets  []SetLog  `json:"sets"`
}

// SetLog is one logged set. ExerciseName is a snapshot of the exercise's name
// at save time, never back-joined to the exercises table.
type SetLog struct {
	ID           int64     `json:"id"`
	WorkoutLogID uuid.UUID `json:"workout_log_id"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	Weight       *float64  `json:"weight"`
	Reps         string    `json:"reps"`
	RPE          *float64  `json:"rpe"`
	IsCompleted  bool      `json:"is_completed"`
}

// SetRow is the wire shape of a set in the workout-save payload: a SetLog
// before it has been assigned ids.
type SetRow struct {
	ExerciseName string   `json:"exercise_name"`
	SetNumber    int      `json:"set_number"`
	Weight       *float64 `json:"weight"`
	Reps         string   `json:"reps"`
	RPE          *float64 `json:"rpe"`
	IsCompleted  bool     `json:"is_completed"`
}
