package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/state"
)

const stubArticle = "Solar energy keeps getting cheaper. " +
	"Installations broke records again this year and storage is catching up fast."

const stubTitle = "Solar Shines On"

// writerLLM answers the title prompt and the article prompt differently.
func writerLLM() *fakeLLM {
	return &fakeLLM{generate: func(prompt string, _ llm.Stage) (string, error) {
		if isTitlePrompt(prompt) {
			return stubTitle + "\n", nil
		}
		return stubArticle, nil
	}}
}

func researchedState() state.PipelineState {
	st := state.New("solar energy", "a@b.com")
	out := st.Clone()
	out.ResearchFindings = []string{"Finding one", "Finding two", "Finding three"}
	out.ResearchSources = []string{"https://example.com/1"}
	out.Status = state.StatusResearchComplete
	return out
}

func TestWriter_Success(t *testing.T) {
	client := writerLLM()
	st := researchedState()

	out, err := Writer(client, testThresholds().Writer).Run(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, state.StatusWritingComplete, out.Status)
	assert.Equal(t, stubArticle, out.FullArticle)
	assert.Equal(t, stubTitle, out.ArticleTitle)
	assert.Equal(t, 2, client.callCount())

	require.Len(t, out.Messages, 2)
	assert.Contains(t, out.Messages[1], "Article written")

	m, ok := out.PerformanceMetrics[NameWriter]
	require.True(t, ok)
	assert.Equal(t, wordCount(stubArticle), m.Count)
	// The stub article is far below the word minimum; the metric records
	// that without failing the stage.
	assert.False(t, m.MeetsMinimum)
}

func TestWriter_FindingsReachArticlePrompt(t *testing.T) {
	client := writerLLM()
	st := researchedState()

	_, err := Writer(client, testThresholds().Writer).Run(context.Background(), st)
	require.NoError(t, err)

	var articlePrompt string
	for _, p := range client.prompts {
		if !isTitlePrompt(p) {
			articlePrompt = p
		}
	}
	require.NotEmpty(t, articlePrompt)
	assert.Contains(t, articlePrompt, "Finding one")
	assert.Contains(t, articlePrompt, "Finding three")
	assert.Contains(t, articlePrompt, "solar energy")
}

func TestWriter_RequiresFindings(t *testing.T) {
	client := writerLLM()
	st := state.New("solar energy", "a@b.com")

	_, err := Writer(client, testThresholds().Writer).Run(context.Background(), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "research findings")
	assert.Equal(t, 0, client.callCount())
}

func TestWriter_ArticleFailureAborts(t *testing.T) {
	client := &fakeLLM{generate: func(prompt string, _ llm.Stage) (string, error) {
		if isTitlePrompt(prompt) {
			return stubTitle, nil
		}
		return "", errors.New("model overloaded")
	}}

	_, err := Writer(client, testThresholds().Writer).Run(context.Background(), researchedState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "article generation failed")
}

func TestWriter_TitleFailureAborts(t *testing.T) {
	client := &fakeLLM{generate: func(prompt string, _ llm.Stage) (string, error) {
		if isTitlePrompt(prompt) {
			return "", errors.New("model overloaded")
		}
		return stubArticle, nil
	}}

	_, err := Writer(client, testThresholds().Writer).Run(context.Background(), researchedState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title generation failed")
}

func TestWriter_EmptyOutputsFail(t *testing.T) {
	client := &fakeLLM{generate: func(prompt string, _ llm.Stage) (string, error) {
		if isTitlePrompt(prompt) {
			return "  ", nil
		}
		return stubArticle, nil
	}}

	_, err := Writer(client, testThresholds().Writer).Run(context.Background(), researchedState())
	assert.Error(t, err)
}

func TestWriter_DoesNotMutateInput(t *testing.T) {
	st := researchedState()

	_, err := Writer(writerLLM(), testThresholds().Writer).Run(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, state.StatusResearchComplete, st.Status)
	assert.Empty(t, st.FullArticle)
}

func TestWriter_TrimsOutputs(t *testing.T) {
	client := &fakeLLM{generate: func(prompt string, _ llm.Stage) (string, error) {
		if isTitlePrompt(prompt) {
			return "\n  " + stubTitle + "  \n", nil
		}
		return "\n" + stubArticle + "\n\n", nil
	}}

	out, err := Writer(client, testThresholds().Writer).Run(context.Background(), researchedState())
	require.NoError(t, err)
	assert.Equal(t, stubTitle, out.ArticleTitle)
	assert.False(t, strings.HasSuffix(out.FullArticle, "\n"))
}
