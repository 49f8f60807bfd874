package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	st := New("solar energy", "a@b.com")

	assert.Equal(t, "solar energy", st.Topic)
	assert.Equal(t, "a@b.com", st.RecipientEmail)
	assert.Equal(t, StatusStarting, st.Status)
	assert.Equal(t, []string{"Workflow started"}, st.Messages)
	assert.Empty(t, st.PerformanceMetrics)
	assert.Empty(t, st.ResearchFindings)
	assert.Empty(t, st.FullArticle)
	assert.Empty(t, st.Error)
}

func TestClone_IsIndependent(t *testing.T) {
	orig := New("topic", "a@b.com")
	orig.ResearchFindings = []string{"one", "two"}
	orig.RecordMetrics("research", StageMetrics{Count: 2})

	clone := orig.Clone()
	clone.ResearchFindings[0] = "changed"
	clone.AppendMessage("extra")
	clone.RecordMetrics("research", StageMetrics{Count: 99})
	clone.RecordMetrics("writer", StageMetrics{Count: 1})

	assert.Equal(t, "one", orig.ResearchFindings[0])
	assert.Len(t, orig.Messages, 1)
	assert.Equal(t, 2, orig.PerformanceMetrics["research"].Count)
	assert.NotContains(t, orig.PerformanceMetrics, "writer")
}

func TestClone_OriginalGrowthDoesNotLeak(t *testing.T) {
	orig := New("topic", "a@b.com")
	clone := orig.Clone()

	orig.AppendMessage("after clone")
	orig.RecordMetrics("research", StageMetrics{Count: 5})

	assert.Len(t, clone.Messages, 1)
	assert.Empty(t, clone.PerformanceMetrics)
}

func TestRecordMetrics_MergesWithoutOverwriting(t *testing.T) {
	st := New("topic", "a@b.com")
	st.RecordMetrics("research", StageMetrics{Count: 5, MeetsMinimum: true})
	st.RecordMetrics("writer", StageMetrics{Count: 450, MeetsMinimum: true})

	require.Len(t, st.PerformanceMetrics, 2)
	assert.Equal(t, 5, st.PerformanceMetrics["research"].Count)
	assert.Equal(t, 450, st.PerformanceMetrics["writer"].Count)
}

func TestRecordMetrics_NilMap(t *testing.T) {
	var st PipelineState
	st.RecordMetrics("research", StageMetrics{Count: 1})
	assert.Equal(t, 1, st.PerformanceMetrics["research"].Count)
}
