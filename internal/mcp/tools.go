package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/models"
)

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all training programs with their ids, names, and descriptions."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Retrieve a full training program: its weeks, each week's days, and each day's exercises with target sets, reps, weight, and RPE."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program id")),
)

var toolGetDay = mcp.NewTool("get_day",
	mcp.WithDescription("Retrieve a training day with its planned exercises and the most recent workout logged for it, if any."),
	mcp.WithString("day_id", mcp.Required(), mcp.Description("Day id")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Save a completed workout for a training day. Sets is a JSON array of objects with exercise_name, set_number, weight (number or null), reps (string), rpe (number or null), and is_completed (bool). The save is atomic."),
	mcp.WithString("day_id", mcp.Required(), mcp.Description("Day id the workout was performed for")),
	mcp.WithString("notes", mcp.Description("Free-form session notes")),
	mcp.WithString("sets", mcp.Required(), mcp.Description(`JSON array of logged sets, e.g. [{"exercise_name":"Squat","set_number":1,"weight":140,"reps":"5","rpe":8,"is_completed":true}]`)),
)

var toolGetRecentLogs = mcp.NewTool("get_recent_logs",
	mcp.WithDescription("Retrieve the most recent workout logs across all days, newest first, with their logged sets."),
	mcp.WithString("limit", mcp.Description("Maximum number of logs to return. Defaults to 10.")),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(programs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}
	id, err := parseID(idStr)
	if err != nil {
		return mcp.NewToolResultError("program_id must be an integer"), nil
	}

	program, err := h.ds.GetProgramFull(ctx, id)
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(program)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("day_id")
	if err != nil {
		return mcp.NewToolResultError("day_id parameter is required"), nil
	}
	id, err := parseID(idStr)
	if err != nil {
		return mcp.NewToolResultError("day_id must be an integer"), nil
	}

	day, lastLog, err := h.ds.GetDayFull(ctx, id)
	if err != nil {
		h.log.Error("mcp get_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day":      day,
		"last_log": lastLog,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("day_id")
	if err != nil {
		return mcp.NewToolResultError("day_id parameter is required"), nil
	}
	id, err := parseID(idStr)
	if err != nil {
		return mcp.NewToolResultError("day_id must be an integer"), nil
	}

	setsStr, err := req.RequireString("sets")
	if err != nil {
		return mcp.NewToolResultError("sets parameter is required"), nil
	}
	var rows []models.SetRow
	if err := json.Unmarshal([]byte(setsStr), &rows); err != nil {
		return mcp.NewToolResultError("sets must be a JSON array of set objects: " + err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultError("sets must contain at least one set"), nil
	}

	notes := req.GetString("notes", "")

	logID, err := h.ds.SaveWorkout(ctx, id, notes, rows)
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("save failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"success": true,
		"log_id":  logID,
		"sets":    len(rows),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if limitStr := req.GetString("limit", ""); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			return mcp.NewToolResultError("limit must be a positive integer"), nil
		}
		limit = n
	}

	logs, err := h.ds.RecentLogs(ctx, limit)
	if err != nil {
		h.log.Error("mcp get_recent_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
