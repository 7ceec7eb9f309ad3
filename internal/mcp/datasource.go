package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/client"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local, in-process) and *client.Client (remote via the REST API) satisfy
// this interface.
type DataSource interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgramFull(ctx context.Context, programID int64) (*models.Program, error)
	GetDayFull(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error)
	SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error)
	RecentLogs(ctx context.Context, limit int) ([]models.WorkoutLog, error)
}

var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*client.Client)(nil)
)
