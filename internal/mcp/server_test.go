package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/models"
)

// fakeSource is an in-memory DataSource for handler tests.
type fakeSource struct {
	programs  []models.Program
	day       *models.Day
	lastLog   *models.WorkoutLog
	savedDay  int64
	savedRows []models.SetRow
	saveErr   error
}

func (f *fakeSource) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return f.programs, nil
}

func (f *fakeSource) GetProgramFull(ctx context.Context, programID int64) (*models.Program, error) {
	for i := range f.programs {
		if f.programs[i].ID == programID {
			return &f.programs[i], nil
		}
	}
	return nil, errors.New("program not found")
}

func (f *fakeSource) GetDayFull(ctx context.Context, dayID int64) (*models.Day, *models.WorkoutLog, error) {
	return f.day, f.lastLog, nil
}

func (f *fakeSource) SaveWorkout(ctx context.Context, dayID int64, notes string, rows []models.SetRow) (uuid.UUID, error) {
	if f.saveErr != nil {
		return uuid.Nil, f.saveErr
	}
	f.savedDay = dayID
	f.savedRows = rows
	return uuid.New(), nil
}

func (f *fakeSource) RecentLogs(ctx context.Context, limit int) ([]models.WorkoutLog, error) {
	return nil, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestParseID verifies id parsing accepts integers and rejects everything else.
func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	if _, err := parseID("squat"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := parseID(""); err == nil {
		t.Error("expected error for empty id")
	}
}

// TestGetProgramRequiresID verifies the tool rejects a missing program_id.
func TestGetProgramRequiresID(t *testing.T) {
	h := testHandlers(&fakeSource{})

	res, err := h.getProgram(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing program_id")
	}

	res, _ = h.getProgram(context.Background(), callReq(map[string]any{"program_id": "abc"}))
	if !res.IsError {
		t.Error("expected error result for non-numeric program_id")
	}
}

// TestGetDayReturnsDayAndLastLog verifies the payload carries both the day and
// its most recent log.
func TestGetDayReturnsDayAndLastLog(t *testing.T) {
	ds := &fakeSource{
		day:     &models.Day{ID: 7, Name: "Push A"},
		lastLog: &models.WorkoutLog{ID: uuid.New(), DayID: 7},
	}
	h := testHandlers(ds)

	res, err := h.getDay(context.Background(), callReq(map[string]any{"day_id": "7"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var payload struct {
		Day     *models.Day        `json:"day"`
		LastLog *models.WorkoutLog `json:"last_log"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Day == nil || payload.Day.Name != "Push A" {
		t.Errorf("day = %+v, want Push A", payload.Day)
	}
	if payload.LastLog == nil || payload.LastLog.DayID != 7 {
		t.Errorf("last_log = %+v, want day_id 7", payload.LastLog)
	}
}

// TestLogWorkoutParsesSets verifies the sets JSON parameter is decoded and
// passed through to the data source.
func TestLogWorkoutParsesSets(t *testing.T) {
	ds := &fakeSource{}
	h := testHandlers(ds)

	sets := `[{"exercise_name":"Squat","set_number":1,"weight":140,"reps":"5","rpe":8,"is_completed":true}]`
	res, err := h.logWorkout(context.Background(), callReq(map[string]any{
		"day_id": "3",
		"notes":  "felt strong",
		"sets":   sets,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	if ds.savedDay != 3 {
		t.Errorf("saved day = %d, want 3", ds.savedDay)
	}
	if len(ds.savedRows) != 1 {
		t.Fatalf("saved %d rows, want 1", len(ds.savedRows))
	}
	row := ds.savedRows[0]
	if row.ExerciseName != "Squat" || row.Reps != "5" || !row.IsCompleted {
		t.Errorf("row = %+v", row)
	}
	if row.Weight == nil || *row.Weight != 140 {
		t.Errorf("weight = %v, want 140", row.Weight)
	}
}

// TestLogWorkoutRejectsBadSets verifies malformed and empty sets payloads are
// rejected before any save.
func TestLogWorkoutRejectsBadSets(t *testing.T) {
	ds := &fakeSource{}
	h := testHandlers(ds)

	cases := []string{"not json", "[]", `{"exercise_name":"Squat"}`}
	for _, sets := range cases {
		res, err := h.logWorkout(context.Background(), callReq(map[string]any{
			"day_id": "3",
			"sets":   sets,
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Errorf("sets=%q: expected error result", sets)
		}
	}
	if ds.savedRows != nil {
		t.Error("save should not have been called")
	}
}

// TestLogWorkoutSaveFailure verifies a data source failure surfaces as a tool
// error result, not a protocol error.
func TestLogWorkoutSaveFailure(t *testing.T) {
	ds := &fakeSource{saveErr: errors.New("connection refused")}
	h := testHandlers(ds)

	res, err := h.logWorkout(context.Background(), callReq(map[string]any{
		"day_id": "3",
		"sets":   `[{"exercise_name":"Squat","set_number":1,"reps":"5","is_completed":true}]`,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, res), "save failed") {
		t.Errorf("message = %q, want save failed prefix", resultText(t, res))
	}
}

// TestGetRecentLogsLimitValidation verifies limit parsing.
func TestGetRecentLogsLimitValidation(t *testing.T) {
	h := testHandlers(&fakeSource{})

	for _, bad := range []string{"0", "-1", "ten"} {
		res, err := h.getRecentLogs(context.Background(), callReq(map[string]any{"limit": bad}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Errorf("limit=%q: expected error result", bad)
		}
	}

	res, _ := h.getRecentLogs(context.Background(), callReq(map[string]any{}))
	if res.IsError {
		t.Errorf("default limit should succeed: %s", resultText(t, res))
	}
}
