// Package client implements the session gateway against the liftlog REST
// API, for running the workout flow away from the server process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// Client talks to the liftlog server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: Client satisfies the session gateway.
var _ session.Gateway = (*Client)(nil)

// New creates a Client targeting the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues a request and decodes the JSON response into out (when non-nil),
// mapping HTTP status codes onto the session error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w: %v", path, session.ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w: %v", session.ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("client: %s: %w", path, session.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("client: %s: %w: %s", path, session.ErrValidation, respBody)
	default:
		return fmt.Errorf("client: %s returned %d: %w: %s",
			path, resp.StatusCode, session.ErrTransient, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

type dayFullResponse struct {
	models.Day
	Logs []models.WorkoutLog `json:"logs"`
}

// FetchDay retrieves a day with its exercises and most recent log.
func (c *Client) FetchDay(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error) {
	var resp dayFullResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/days/%d/full", dayID), nil, &resp); err != nil {
		return nil, nil, err
	}

	var lastLog *models.WorkoutLog
	if len(resp.Logs) > 0 {
		lastLog = &resp.Logs[0]
	}
	return &resp.Day, lastLog, nil
}

// SaveWorkout posts the flattened session; the server commits it as one
// transaction.
func (c *Client) SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error) {
	if rows == nil {
		rows = []models.SetRow{}
	}
	body := map[string]any{"day_id": dayID, "notes": notes, "sets": rows}

	var resp struct {
		Success bool      `json:"success"`
		LogID   uuid.UUID `json:"logId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/workouts", body, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.LogID, nil
}

// CreateExercise adds an exercise to a day and returns the stored row.
func (c *Client) CreateExercise(ctx context.Context, dayID int64, ne models.NewExercise) (*models.Exercise, error) {
	body := map[string]any{
		"day_id":        dayID,
		"name":          ne.Name,
		"target_sets":   ne.TargetSets,
		"target_reps":   ne.TargetReps,
		"target_weight": ne.TargetWeight,
		"target_rpe":    ne.TargetRPE,
		"notes":         ne.Notes,
	}

	var ex models.Exercise
	if err := c.do(ctx, http.MethodPost, "/api/exercises", body, &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

// UpdateExercise applies a typed partial update.
func (c *Client) UpdateExercise(ctx context.Context, exerciseID int64, p models.ExercisePatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/exercises/%d", exerciseID), p, nil)
}

// DeleteExercise removes an exercise from its day's plan.
func (c *Client) DeleteExercise(ctx context.Context, exerciseID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/exercises/%d", exerciseID), nil, nil)
}

// ReorderExercises submits the full desired ordering for a day.
func (c *Client) ReorderExercises(ctx context.Context, dayID int64, orderedIDs []int64) error {
	body := map[string]any{"exerciseIds": orderedIDs}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/days/%d/reorder", dayID), body, nil)
}

// ListPrograms returns all programs without their trees.
func (c *Client) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := c.do(ctx, http.MethodGet, "/api/programs", nil, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// GetProgramFull returns a program with its full week → day → exercise tree.
func (c *Client) GetProgramFull(ctx context.Context, programID int64) (*models.Program, error) {
	var p models.Program
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/programs/%d/full", programID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetDayFull mirrors FetchDay for consumers that want the wire shape.
func (c *Client) GetDayFull(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error) {
	return c.FetchDay(ctx, dayID)
}

// RecentLogs returns the newest workout logs across all days.
func (c *Client) RecentLogs(ctx context.Context, limit int) ([]models.WorkoutLog, error) {
	path := "/api/workouts"
	if limit > 0 {
		path = fmt.Sprintf("/api/workouts?limit=%d", limit)
	}
	var logs []models.WorkoutLog
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
