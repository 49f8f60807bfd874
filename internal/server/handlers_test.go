package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/pipeline"
	"github.com/contentflow/contentflow/internal/search"
)

// scriptedLLM answers every pipeline stage with canned text.
type scriptedLLM struct {
	failStage llm.Stage
}

func (s scriptedLLM) Generate(_ context.Context, prompt string, stage llm.Stage) (string, error) {
	if stage == s.failStage {
		return "", errors.New("model overloaded")
	}
	switch stage {
	case llm.StageResearch:
		return "Finding one\nFinding two\nFinding three", nil
	case llm.StageWriter:
		if strings.Contains(prompt, "catchy title") {
			return "Solar Shines On", nil
		}
		return "Solar energy keeps getting cheaper and installations broke records this year.", nil
	default:
		return "Solar power had a record year.", nil
	}
}

func (scriptedLLM) Model(llm.Stage) string { return "scripted" }
func (scriptedLLM) Close() error           { return nil }

type stubSearch struct{}

func (stubSearch) Search(context.Context, string, int) ([]search.Result, error) {
	return []search.Result{{Content: "result one", URL: "https://example.com/1"}}, nil
}

// sentMail is one captured delivery.
type sentMail struct {
	to, subject, body string
}

// captureSender records deliveries on a channel; Send runs off the request
// goroutine, so tests receive with a timeout.
type captureSender struct {
	sent chan sentMail
}

func newCaptureSender() *captureSender {
	return &captureSender{sent: make(chan sentMail, 1)}
}

func (c *captureSender) Send(_ context.Context, to, subject, body string) error {
	c.sent <- sentMail{to: to, subject: subject, body: body}
	return nil
}

func newTestServer(client llm.Client, sender *captureSender) *Server {
	w := pipeline.New(client, stubSearch{}, config.DefaultThresholds())
	cfg := Config{Port: 0, Workflow: w}
	if sender != nil {
		cfg.Sender = sender
	}
	return New(cfg)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGenerateNewsletter_Success(t *testing.T) {
	sender := newCaptureSender()
	s := newTestServer(scriptedLLM{}, sender)

	rec := doJSON(t, s, http.MethodPost, "/generate-newsletter", GenerateRequest{
		Topic:          "solar energy",
		RecipientEmail: "a@b.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Newsletter generated successfully", resp.Message)
	assert.Equal(t, "newsletter_solar_energy_a@b.com", resp.ThreadID)
	assert.Empty(t, resp.Error)

	assert.Equal(t, "Solar Shines On", resp.Data["article_title"])
	assert.Equal(t, "Newsletter: Solar Shines On", resp.Data["email_subject"])
	assert.NotEmpty(t, resp.Data["article_preview"])
	assert.Contains(t, resp.Data, "performance_metrics")

	// Delivery happens asynchronously after the response.
	select {
	case mail := <-sender.sent:
		assert.Equal(t, "a@b.com", mail.to)
		assert.Equal(t, "Newsletter: Solar Shines On", mail.subject)
		assert.Contains(t, mail.body, "Solar Shines On")
	case <-time.After(2 * time.Second):
		t.Fatal("newsletter was never handed to the sender")
	}
}

func TestGenerateNewsletter_PreviewTruncated(t *testing.T) {
	long := scriptedLLM{}
	s := newTestServer(longArticleLLM{long}, newCaptureSender())

	rec := doJSON(t, s, http.MethodPost, "/generate-newsletter", GenerateRequest{
		Topic:          "solar energy",
		RecipientEmail: "a@b.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	preview, ok := resp.Data["article_preview"].(string)
	require.True(t, ok)
	assert.Len(t, preview, articlePreviewLength+len("..."))
	assert.True(t, strings.HasSuffix(preview, "..."))
}

// longArticleLLM pads the article far past the preview cutoff.
type longArticleLLM struct {
	scriptedLLM
}

func (l longArticleLLM) Generate(ctx context.Context, prompt string, stage llm.Stage) (string, error) {
	text, err := l.scriptedLLM.Generate(ctx, prompt, stage)
	if err != nil || stage != llm.StageWriter || strings.Contains(prompt, "catchy title") {
		return text, err
	}
	return strings.Repeat(text+" ", 10), nil
}

func TestGenerateNewsletter_ValidationErrors(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	tests := []struct {
		name string
		req  GenerateRequest
		want string
	}{
		{"missing topic", GenerateRequest{RecipientEmail: "a@b.com"}, "Topic"},
		{"missing email", GenerateRequest{Topic: "solar"}, "RecipientEmail"},
		{"invalid email", GenerateRequest{Topic: "solar", RecipientEmail: "not-an-email"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/generate-newsletter", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation error")
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGenerateNewsletter_MalformedJSON(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-newsletter", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestGenerateNewsletter_PipelineFailure(t *testing.T) {
	sender := newCaptureSender()
	s := newTestServer(scriptedLLM{failStage: llm.StageWriter}, sender)

	rec := doJSON(t, s, http.MethodPost, "/generate-newsletter", GenerateRequest{
		Topic:          "solar energy",
		RecipientEmail: "a@b.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to generate newsletter", resp.Message)
	assert.Contains(t, resp.Error, "stage writer")

	// No email goes out for a failed run.
	select {
	case <-sender.sent:
		t.Fatal("email was sent for a failed workflow")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWorkflowResult_Found(t *testing.T) {
	s := newTestServer(scriptedLLM{}, newCaptureSender())

	rec := doJSON(t, s, http.MethodPost, "/generate-newsletter", GenerateRequest{
		Topic:          "solar energy",
		RecipientEmail: "a@b.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/workflow/newsletter_solar_energy_a@b.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WorkflowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "newsletter_solar_energy_a@b.com", resp.ThreadID)
	assert.Equal(t, []string{"start", "research", "writer", "newsletter"}, resp.Steps)
	assert.Equal(t, "Solar Shines On", resp.Data.ArticleTitle)
	assert.NotEmpty(t, resp.Data.NewsletterSummary)
}

func TestWorkflowResult_NotFound(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	rec := doJSON(t, s, http.MethodGet, "/workflow/newsletter_unknown_x@y.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Workflow result not found")
}

func TestVisualize(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	rec := doJSON(t, s, http.MethodGet, "/workflow/visualize/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mermaid", resp["format"])
	assert.Contains(t, resp["diagram"], "graph TD;")
	assert.Contains(t, resp["diagram"], "research --> writer;")
}

func TestHealth(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, Version, resp["version"])
	_, err := time.Parse(time.RFC3339, resp["timestamp"])
	assert.NoError(t, err)
}

func TestRoot(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	rec := doJSON(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ContentFlow API")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/generate-newsletter", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestUnknownMethodRejected(t *testing.T) {
	s := newTestServer(scriptedLLM{}, nil)

	rec := doJSON(t, s, http.MethodGet, "/generate-newsletter", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
