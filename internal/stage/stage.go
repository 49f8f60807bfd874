// Package stage implements the three newsletter pipeline stages: research,
// writer, and newsletter. Each stage takes a state snapshot and returns a new
// snapshot with its own output fields filled in; the caller's copy is never
// mutated.
package stage

import (
	"context"
	"strings"
	"time"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/state"
)

// Stage names, in pipeline order.
const (
	NameResearch   = "research"
	NameWriter     = "writer"
	NameNewsletter = "newsletter"
)

// Func transforms a pipeline state snapshot into the next one.
type Func func(ctx context.Context, st state.PipelineState) (state.PipelineState, error)

// Stage is one named unit of the pipeline.
type Stage struct {
	Name string
	Run  Func
}

// measure builds the informational metrics record for a completed stage.
func measure(elapsed time.Duration, count int, th config.StageThresholds) state.StageMetrics {
	return state.StageMetrics{
		DurationSeconds: elapsed.Seconds(),
		Count:           count,
		WithinDuration:  elapsed.Seconds() <= th.MaxDurationSeconds,
		MeetsMinimum:    count >= th.MinCount,
	}
}

// splitLines breaks generated text into non-empty trimmed lines. The split is
// purely structural; no semantic validation of the content is attempted.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// wordCount counts whitespace-separated words.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
