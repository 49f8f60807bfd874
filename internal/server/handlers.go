package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/contentflow/contentflow/internal/pipeline"
	"github.com/contentflow/contentflow/internal/state"
)

// articlePreviewLength bounds the article excerpt included in the response.
const articlePreviewLength = 200

// GenerateRequest represents the request body for /generate-newsletter
type GenerateRequest struct {
	Topic          string `json:"topic" validate:"required"`
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
}

// GenerateResponse represents the response for /generate-newsletter
type GenerateResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	ThreadID string         `json:"thread_id,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// WorkflowResponse represents the response for /workflow/{thread_id}
type WorkflowResponse struct {
	ThreadID string              `json:"thread_id"`
	Data     state.PipelineState `json:"data"`
	Steps    []string            `json:"steps"`
}

// handleGenerateNewsletter runs the full workflow for a topic and queues the
// newsletter email. The run blocks the request; the server's write timeout is
// sized for it.
func (s *Server) handleGenerateNewsletter(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result := s.workflow.Run(r.Context(), req.Topic, req.RecipientEmail)
	if !result.Success {
		s.jsonResponse(w, http.StatusOK, GenerateResponse{
			Success: false,
			Message: "Failed to generate newsletter",
			Error:   result.Error,
		})
		return
	}

	final := *result.Data

	// Deliver the email off the request path; a delivery failure does not
	// invalidate the generated newsletter.
	go func() {
		if err := s.sender.Send(context.Background(), final.RecipientEmail, final.EmailSubject, final.EmailBody); err != nil {
			log.Printf("newsletter delivery to %s failed: %v", final.RecipientEmail, err)
		}
	}()

	preview := final.FullArticle
	if len(preview) > articlePreviewLength {
		preview = preview[:articlePreviewLength] + "..."
	}

	s.jsonResponse(w, http.StatusOK, GenerateResponse{
		Success: true,
		Message: "Newsletter generated successfully",
		Data: map[string]any{
			"article_title":       final.ArticleTitle,
			"article_preview":     preview,
			"email_subject":       final.EmailSubject,
			"performance_metrics": final.PerformanceMetrics,
		},
		ThreadID: result.ThreadID,
	})
}

// handleWorkflowResult returns the latest stored state of a workflow run
func (s *Server) handleWorkflowResult(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("thread_id")
	if threadID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Thread ID is required")
		return
	}

	record, ok := s.workflow.Store().Get(threadID)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Workflow result not found")
		return
	}

	latest, _ := record.Latest()
	steps := make([]string, len(record.Checkpoints))
	for i, cp := range record.Checkpoints {
		steps[i] = cp.Step
	}

	s.jsonResponse(w, http.StatusOK, WorkflowResponse{
		ThreadID: threadID,
		Data:     latest,
		Steps:    steps,
	})
}

// handleVisualize returns a textual diagram of the pipeline topology
func (s *Server) handleVisualize(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"diagram": pipeline.Mermaid(),
		"format":  "mermaid",
	})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
