// Package state defines the record threaded through every pipeline stage.
package state

// Status tracks how far a workflow run has progressed. It only ever moves
// forward; a run that errors lands in StatusFailed and stays there.
type Status string

// Workflow statuses in pipeline order.
const (
	StatusStarting           Status = "starting"
	StatusResearchComplete   Status = "research_complete"
	StatusWritingComplete    Status = "writing_complete"
	StatusNewsletterComplete Status = "newsletter_complete"
	StatusFailed             Status = "failed"
)

// StageMetrics holds the informational performance measurements recorded by a
// single stage. The pass/fail flags are advisory and never block advancement.
type StageMetrics struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Count           int     `json:"count"`
	WithinDuration  bool    `json:"within_duration"`
	MeetsMinimum    bool    `json:"meets_minimum"`
}

// PipelineState is the full record threaded through all stages. Each stage
// receives a snapshot, writes only its own designated output fields plus the
// shared control fields (Status, Error, Messages, PerformanceMetrics), and
// returns the updated snapshot.
type PipelineState struct {
	// Inputs, immutable after creation.
	Topic          string `json:"topic"`
	RecipientEmail string `json:"recipient_email"`

	// Research stage output.
	ResearchFindings []string `json:"research_findings"`
	ResearchSources  []string `json:"research_sources"`

	// Writer stage output.
	FullArticle  string `json:"full_article"`
	ArticleTitle string `json:"article_title"`

	// Newsletter stage output.
	NewsletterSummary string `json:"newsletter_summary"`
	EmailSubject      string `json:"email_subject"`
	EmailBody         string `json:"email_body"`

	// Workflow control.
	Status             Status                  `json:"status"`
	Error              string                  `json:"error,omitempty"`
	Messages           []string                `json:"messages"`
	PerformanceMetrics map[string]StageMetrics `json:"performance_metrics"`
}

// New builds the initial state for a workflow run.
func New(topic, recipientEmail string) PipelineState {
	return PipelineState{
		Topic:              topic,
		RecipientEmail:     recipientEmail,
		Status:             StatusStarting,
		Messages:           []string{"Workflow started"},
		PerformanceMetrics: map[string]StageMetrics{},
	}
}

// Clone returns a deep copy of the state. Stages clone before writing so the
// caller's snapshot is never mutated.
func (s PipelineState) Clone() PipelineState {
	out := s
	if s.ResearchFindings != nil {
		out.ResearchFindings = append([]string(nil), s.ResearchFindings...)
	}
	if s.ResearchSources != nil {
		out.ResearchSources = append([]string(nil), s.ResearchSources...)
	}
	if s.Messages != nil {
		out.Messages = append([]string(nil), s.Messages...)
	}
	out.PerformanceMetrics = make(map[string]StageMetrics, len(s.PerformanceMetrics))
	for name, m := range s.PerformanceMetrics {
		out.PerformanceMetrics[name] = m
	}
	return out
}

// AppendMessage adds an entry to the append-only audit log.
func (s *PipelineState) AppendMessage(msg string) {
	s.Messages = append(s.Messages, msg)
}

// RecordMetrics merges one stage's metrics into the accumulated map,
// preserving entries recorded by earlier stages.
func (s *PipelineState) RecordMetrics(stage string, m StageMetrics) {
	if s.PerformanceMetrics == nil {
		s.PerformanceMetrics = map[string]StageMetrics{}
	}
	s.PerformanceMetrics[stage] = m
}
