// Package pipeline wires the newsletter stages into a fixed linear sequence
// and provides the workflow invocation facade.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/search"
	"github.com/contentflow/contentflow/internal/stage"
	"github.com/contentflow/contentflow/internal/state"
)

// checkpointStart names the checkpoint taken before any stage runs.
const checkpointStart = "start"

// Workflow executes the fixed research → writer → newsletter sequence,
// checkpointing the full state after every stage. The topology is a plain
// ordered list; there is no branching or retry.
type Workflow struct {
	stages []stage.Stage
	store  *Store
}

// New assembles the workflow from its external collaborators.
func New(client llm.Client, searcher search.Service, th config.Thresholds) *Workflow {
	return &Workflow{
		stages: []stage.Stage{
			stage.Research(client, searcher, th.Research),
			stage.Writer(client, th.Writer),
			stage.Newsletter(client, th.Newsletter),
		},
		store: NewStore(),
	}
}

// Store exposes the checkpoint store for result lookups.
func (w *Workflow) Store() *Store {
	return w.store
}

// ThreadID derives the run identifier for a topic/email pair. The derivation
// is deterministic, so repeated identical requests map to the same identifier
// and overwrite each other's checkpoints.
func ThreadID(topic, email string) string {
	return fmt.Sprintf("newsletter_%s_%s", strings.ReplaceAll(topic, " ", "_"), email)
}

// Result is the envelope returned by Run. Callers branch on Success; Error is
// set exactly when Success is false.
type Result struct {
	Success  bool                 `json:"success"`
	Data     *state.PipelineState `json:"data"`
	ThreadID string               `json:"thread_id"`
	Error    string               `json:"error,omitempty"`
}

// Run executes the complete workflow for a topic and recipient. It is a
// long-running blocking call (each stage performs external round-trips) and
// always returns a well-formed envelope, never a panic.
func (w *Workflow) Run(ctx context.Context, topic, email string) (result Result) {
	threadID := ThreadID(topic, email)
	result = Result{ThreadID: threadID}

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				ThreadID: threadID,
				Error:    fmt.Sprintf("workflow panicked: %v", r),
			}
		}
	}()

	// Input validation belongs to the API layer, but guard here so a missing
	// check surfaces as a clean failure instead of an empty prompt downstream.
	if strings.TrimSpace(topic) == "" {
		result.Error = "topic must not be empty"
		return result
	}
	if strings.TrimSpace(email) == "" {
		result.Error = "recipient email must not be empty"
		return result
	}

	st := state.New(topic, email)
	w.store.Save(threadID, checkpointStart, st)

	final, err := w.invoke(ctx, threadID, st)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Data = &final
	return result
}

// invoke runs the stages strictly in order, persisting a checkpoint after
// each. On stage failure the remaining stages are skipped and a failed
// checkpoint is recorded for inspection.
func (w *Workflow) invoke(ctx context.Context, threadID string, st state.PipelineState) (state.PipelineState, error) {
	for _, sg := range w.stages {
		next, err := sg.Run(ctx, st)
		if err != nil {
			failed := st.Clone()
			failed.Status = state.StatusFailed
			failed.Error = err.Error()
			w.store.Save(threadID, sg.Name, failed)
			return state.PipelineState{}, fmt.Errorf("stage %s: %w", sg.Name, err)
		}
		st = next
		w.store.Save(threadID, sg.Name, st)
	}
	return st, nil
}
