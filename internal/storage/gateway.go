package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// LocalGateway adapts DB to the session gateway for in-process use, so the
// workout flow can run inside the server without going through HTTP. Storage
// errors are mapped onto the session taxonomy the same way the HTTP client
// maps status codes.
type LocalGateway struct {
	db *DB
}

var _ session.Gateway = (*LocalGateway)(nil)

func NewLocalGateway(db *DB) *LocalGateway {
	return &LocalGateway{db: db}
}

func (g *LocalGateway) FetchDay(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error) {
	day, lastLog, err := g.db.GetDayFull(ctx, dayID)
	if err != nil {
		return nil, nil, gatewayErr(err)
	}
	return day, lastLog, nil
}

func (g *LocalGateway) SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error) {
	logID, err := g.db.SaveWorkout(ctx, dayID, notes, rows)
	if err != nil {
		return uuid.Nil, gatewayErr(err)
	}
	return logID, nil
}

func (g *LocalGateway) CreateExercise(ctx context.Context, dayID int64, ne models.NewExercise) (*models.Exercise, error) {
	ex, err := g.db.CreateExercise(ctx, dayID, ne)
	if err != nil {
		return nil, gatewayErr(err)
	}
	return ex, nil
}

func (g *LocalGateway) UpdateExercise(ctx context.Context, exerciseID int64, p models.ExercisePatch) error {
	return gatewayErr(g.db.UpdateExercise(ctx, exerciseID, p))
}

func (g *LocalGateway) DeleteExercise(ctx context.Context, exerciseID int64) error {
	return gatewayErr(g.db.DeleteExercise(ctx, exerciseID))
}

func (g *LocalGateway) ReorderExercises(ctx context.Context, dayID int64, orderedIDs []int64) error {
	return gatewayErr(g.db.ReorderExercises(ctx, dayID, orderedIDs))
}

// gatewayErr translates storage errors into the session error taxonomy:
// missing rows keep their not-found identity, anything else is a retryable
// database failure.
func gatewayErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: %v", session.ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", session.ErrTransient, err)
	}
}
