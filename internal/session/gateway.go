// Package session holds the workout-session core: the reconciler that merges
// the planned day, the most recent log and any local draft into one editable
// session, and the mutation handlers that keep plan and session in step.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Error taxonomy for gateway failures. Callers distinguish them with
// errors.Is; a transient error is safe to retry with the draft intact.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
	ErrTransient  = errors.New("transient gateway error")
)

// Gateway is the persistence boundary the session core talks to. The HTTP
// client implements it against the REST API; tests use in-memory fakes.
type Gateway interface {
	// FetchDay returns the day with its ordered exercises and the most
	// recent workout log recorded against it (nil when never logged).
	FetchDay(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error)

	// SaveWorkout atomically stores one workout log with all its set rows.
	SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error)

	CreateExercise(ctx context.Context, dayID int64, ne models.NewExercise) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID int64, p models.ExercisePatch) error
	DeleteExercise(ctx context.Context, exerciseID int64) error
	ReorderExercises(ctx context.Context, dayID int64, orderedIDs []int64) error
}

// DraftStore is the durable side channel for in-progress edits.
type DraftStore interface {
	Load(dayID int64) (models.SessionDraft, bool, error)
	Save(dayID int64, d models.SessionDraft) error
	Clear(dayID int64) error
}
