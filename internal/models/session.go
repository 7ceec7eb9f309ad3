package models

// SetEntry is one editable set row in the session view. Weight, Reps and RPE
// are kept as strings while editing; numbers are parsed only when the session
// is flattened for saving. Touched records that the user edited weight or
// reps, so rows carrying only a synthesized target-weight prefill can be told
// apart from sets that were actually performed.
type SetEntry struct {
	SetNumber int    `json:"setNum"`
	Weight    string `json:"weight"`
	Reps      string `json:"reps"`
	RPE       string `json:"rpe"`
	Completed bool   `json:"completed"`
	Touched   bool   `json:"touched"`
}

// SessionDraft is the locally persisted working copy of an in-progress
// session: set rows keyed by exercise id. It is written wholesale on every
// session mutation and deleted after a successful save.
type SessionDraft map[int64][]SetEntry

// Clone returns a deep copy of the draft.
func (d SessionDraft) Clone() SessionDraft {
	if d == nil {
		return nil
	}
	out := make(SessionDraft, len(d))
	for id, sets := range d {
		cp := make([]SetEntry, len(sets))
		copy(cp, sets)
		out[id] = cp
	}
	return out
}
