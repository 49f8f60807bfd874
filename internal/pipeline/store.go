package pipeline

import (
	"sync"
	"time"

	"github.com/contentflow/contentflow/internal/state"
)

// Checkpoint is a snapshot of the workflow state recorded at a stage boundary.
type Checkpoint struct {
	Step  string              `json:"step"`
	State state.PipelineState `json:"state"`
	At    time.Time           `json:"at"`
}

// RunRecord holds all checkpoints of one workflow run, newest last.
type RunRecord struct {
	ThreadID    string       `json:"thread_id"`
	Checkpoints []Checkpoint `json:"checkpoints"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Latest returns the most recent state snapshot of the run.
func (r *RunRecord) Latest() (state.PipelineState, bool) {
	if len(r.Checkpoints) == 0 {
		return state.PipelineState{}, false
	}
	return r.Checkpoints[len(r.Checkpoints)-1].State, true
}

// Store keeps run records in memory for the life of the process. There is no
// eviction, and concurrent runs with the same thread ID overwrite each other
// (last write wins) — a known limitation of the deterministic ID derivation.
type Store struct {
	mu      sync.RWMutex
	records map[string]*RunRecord
}

// NewStore creates an empty checkpoint store.
func NewStore() *Store {
	return &Store{records: make(map[string]*RunRecord)}
}

// Save appends a checkpoint for the given thread ID, creating the run record
// on first use. The state is cloned so later stage writes cannot leak in.
func (s *Store) Save(threadID, step string, st state.PipelineState) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[threadID]
	if !ok {
		rec = &RunRecord{ThreadID: threadID}
		s.records[threadID] = rec
	}
	rec.Checkpoints = append(rec.Checkpoints, Checkpoint{
		Step:  step,
		State: st.Clone(),
		At:    now,
	})
	rec.UpdatedAt = now
}

// Get returns a copy of the run record for a thread ID.
func (s *Store) Get(threadID string) (RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[threadID]
	if !ok {
		return RunRecord{}, false
	}
	out := RunRecord{
		ThreadID:    rec.ThreadID,
		Checkpoints: append([]Checkpoint(nil), rec.Checkpoints...),
		UpdatedAt:   rec.UpdatedAt,
	}
	return out, true
}

// Latest returns the most recent state snapshot for a thread ID.
func (s *Store) Latest(threadID string) (state.PipelineState, bool) {
	rec, ok := s.Get(threadID)
	if !ok {
		return state.PipelineState{}, false
	}
	return rec.Latest()
}
