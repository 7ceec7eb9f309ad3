package session

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Session is the editable view of one workout. It is an explicit value owned
// by the caller; the only durable side channel is the draft store.
type Session struct {
	DayID   int64
	DayName string
	// Review marks a session seeded from a prior log rather than a fresh
	// plan. Display-only: mutation and save behave identically.
	Review    bool
	Notes     string
	Exercises []*SessionExercise
}

// SessionExercise pairs a plan exercise with its editable set rows.
type SessionExercise struct {
	Exercise models.Exercise
	Sets     []models.SetEntry
}

// Flow wires the session core to its collaborators. It holds no session
// state of its own.
type Flow struct {
	gw     Gateway
	drafts DraftStore
	log    *slog.Logger
}

func NewFlow(gw Gateway, drafts DraftStore, log *slog.Logger) *Flow {
	return &Flow{gw: gw, drafts: drafts, log: log}
}

// Start loads the day and produces the session view. Seeding priority: a
// local draft resumes verbatim; otherwise the most recent log seeds review
// mode; exercises left without sets get target_sets synthesized empty rows.
func (f *Flow) Start(ctx context.Context, dayID int64) (*Session, error) {
	day, lastLog, err := f.gw.FetchDay(ctx, dayID)
	if err != nil {
		return nil, err
	}

	draft, ok, err := f.drafts.Load(dayID)
	if err != nil {
		// A corrupt draft must not block the workout; fall back to history.
		f.log.Warn("draft load failed, reseeding from history", "day", dayID, "error", err)
		draft, ok = nil, false
	}
	if !ok {
		draft = nil
	}

	return reconcile(day, lastLog, draft), nil
}

// reconcile merges the planned day, the most recent log and the local draft
// into one session. Every plan exercise gets exactly one entry.
func reconcile(day *models.Day, lastLog *models.WorkoutLog, draft models.SessionDraft) *Session {
	s := &Session{DayID: day.ID, DayName: day.Name}

	useDraft := len(draft) > 0
	var logged map[string][]models.SetEntry
	if !useDraft && lastLog != nil {
		s.Review = true
		logged = make(map[string][]models.SetEntry)
		for _, sl := range lastLog.Sets {
			// Logged rows were performed, not prefilled, so they stay
			// eligible for a re-save.
			logged[sl.ExerciseName] = append(logged[sl.ExerciseName], models.SetEntry{
				SetNumber: sl.SetNumber,
				Weight:    formatNum(sl.Weight),
				Reps:      sl.Reps,
				RPE:       formatNum(sl.RPE),
				Completed: sl.IsCompleted,
				Touched:   true,
			})
		}
	}

	for _, ex := range day.Exercises {
		var sets []models.SetEntry
		if useDraft {
			sets = cloneSets(draft[ex.ID])
		} else if s.Review {
			sets = cloneSets(logged[ex.Name])
		}
		if len(sets) == 0 {
			sets = synthesizeSets(ex)
		}
		s.Exercises = append(s.Exercises, &SessionExercise{Exercise: ex, Sets: sets})
	}
	return s
}

// synthesizeSets builds target_sets empty rows for an exercise, prefilling
// the weight column from the planned target weight.
func synthesizeSets(ex models.Exercise) []models.SetEntry {
	sets := make([]models.SetEntry, 0, ex.TargetSets)
	for i := 0; i < ex.TargetSets; i++ {
		sets = append(sets, models.SetEntry{
			SetNumber: i + 1,
			Weight:    formatNum(ex.TargetWeight),
		})
	}
	return sets
}

func cloneSets(sets []models.SetEntry) []models.SetEntry {
	if len(sets) == 0 {
		return nil
	}
	cp := make([]models.SetEntry, len(sets))
	copy(cp, sets)
	return cp
}

// find returns the session entry for an exercise id, or nil.
func (s *Session) find(exerciseID int64) *SessionExercise {
	for _, se := range s.Exercises {
		if se.Exercise.ID == exerciseID {
			return se
		}
	}
	return nil
}

// Draft snapshots the session's set rows keyed by exercise id.
func (s *Session) Draft() models.SessionDraft {
	d := make(models.SessionDraft, len(s.Exercises))
	for _, se := range s.Exercises {
		d[se.Exercise.ID] = cloneSets(se.Sets)
	}
	return d
}

// Flatten converts the session into normalized log rows. A row is kept only
// when the set was completed, or the user edited its weight or reps to a
// non-empty value; an rpe on its own does not count as touched, and neither
// does the synthesized target-weight prefill. The exercise's current display
// name is captured by value.
func (s *Session) Flatten() []models.SetRow {
	var rows []models.SetRow
	for _, se := range s.Exercises {
		for _, set := range se.Sets {
			touched := set.Touched && (set.Weight != "" || set.Reps != "")
			if !set.Completed && !touched {
				continue
			}
			rows = append(rows, models.SetRow{
				ExerciseName: se.Exercise.Name,
				SetNumber:    set.SetNumber,
				Weight:       parseNum(set.Weight),
				Reps:         set.Reps,
				RPE:          parseNum(set.RPE),
				IsCompleted:  set.Completed,
			})
		}
	}
	return rows
}

// Finish flattens the session, commits it as one atomic workout save, then
// carries completed weights forward into the plan and clears the draft. A
// failed save returns with the draft intact so a retry loses nothing.
func (f *Flow) Finish(ctx context.Context, s *Session) (uuid.UUID, error) {
	logID, err := f.gw.SaveWorkout(ctx, s.DayID, s.Notes, s.Flatten())
	if err != nil {
		return uuid.Nil, err
	}

	f.carryForward(ctx, s)

	if err := f.drafts.Clear(s.DayID); err != nil {
		f.log.Warn("draft clear failed after save", "day", s.DayID, "error", err)
	}
	return logID, nil
}

// carryForward propagates the last completed working set's weight and rpe of
// each exercise back into its plan targets. Best effort: failures are logged
// and never block the already-committed save.
func (f *Flow) carryForward(ctx context.Context, s *Session) {
	for _, se := range s.Exercises {
		var weight, rpe *float64
		for _, set := range se.Sets {
			if !set.Completed {
				continue
			}
			w := parseNum(set.Weight)
			if w == nil || *w <= 0 {
				continue
			}
			weight = w
			rpe = parseNum(set.RPE)
		}
		if weight == nil {
			continue
		}
		patch := models.ExercisePatch{TargetWeight: weight, TargetRPE: rpe}
		if err := f.gw.UpdateExercise(ctx, se.Exercise.ID, patch); err != nil {
			f.log.Warn("carry-forward failed", "exercise", se.Exercise.ID, "error", err)
		}
	}
}

func (f *Flow) saveDraft(s *Session) error {
	return f.drafts.Save(s.DayID, s.Draft())
}

// SetWeight updates one set's weight, marks the set touched and autosaves
// the draft.
func (f *Flow) SetWeight(s *Session, exerciseID int64, setIndex int, value string) error {
	return f.editSet(s, exerciseID, setIndex, func(set *models.SetEntry) {
		set.Weight = value
		set.Touched = true
	})
}

// SetReps updates one set's reps, marks the set touched and autosaves the
// draft.
func (f *Flow) SetReps(s *Session, exerciseID int64, setIndex int, value string) error {
	return f.editSet(s, exerciseID, setIndex, func(set *models.SetEntry) {
		set.Reps = value
		set.Touched = true
	})
}

// SetRPE updates one set's rpe and autosaves the draft.
func (f *Flow) SetRPE(s *Session, exerciseID int64, setIndex int, value string) error {
	return f.editSet(s, exerciseID, setIndex, func(set *models.SetEntry) {
		set.RPE = value
	})
}

// SetCompleted marks a set done or undone and autosaves the draft.
func (f *Flow) SetCompleted(s *Session, exerciseID int64, setIndex int, done bool) error {
	return f.editSet(s, exerciseID, setIndex, func(set *models.SetEntry) {
		set.Completed = done
	})
}

func (f *Flow) editSet(s *Session, exerciseID int64, setIndex int, edit func(*models.SetEntry)) error {
	se := s.find(exerciseID)
	if se == nil {
		return ErrNotFound
	}
	if setIndex < 0 || setIndex >= len(se.Sets) {
		return ErrValidation
	}
	edit(&se.Sets[setIndex])
	return f.saveDraft(s)
}

// formatNum renders a nullable numeric for the editable string fields.
func formatNum(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// parseNum parses an editable field back to a nullable numeric. Empty or
// unparseable input maps to null.
func parseNum(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
