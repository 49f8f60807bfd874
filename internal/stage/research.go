package stage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/prompts"
	"github.com/contentflow/contentflow/internal/search"
	"github.com/contentflow/contentflow/internal/state"
)

const (
	maxSearchResults = 5
	maxSources       = 3
)

// Research builds the stage that gathers information on the topic. It queries
// the search service, degrades to general knowledge when search is
// unavailable, and extracts findings with the research model.
func Research(client llm.Client, searcher search.Service, th config.StageThresholds) Stage {
	return Stage{
		Name: NameResearch,
		Run: func(ctx context.Context, st state.PipelineState) (state.PipelineState, error) {
			start := time.Now()

			query := fmt.Sprintf("%s latest news 2024", st.Topic)
			results, err := searcher.Search(ctx, query, maxSearchResults)

			var searchBlock string
			var sources []string
			if err != nil || len(results) == 0 {
				// Search failure must not fail the pipeline. Fall back to the
				// model's general knowledge and mark the source accordingly.
				log.Printf("search unavailable for topic %q, using general knowledge: %v", st.Topic, err)
				searchBlock = fmt.Sprintf("Search was unavailable. Rely on general knowledge about %s.", st.Topic)
				sources = []string{"general knowledge"}
			} else {
				var sb strings.Builder
				for _, r := range results {
					sb.WriteString("- ")
					sb.WriteString(r.Content)
					sb.WriteString("\n")
				}
				searchBlock = sb.String()
				for _, r := range results {
					if len(sources) == maxSources {
						break
					}
					sources = append(sources, r.URL)
				}
			}

			template := prompts.MustGet("research.json", "extract-findings")
			prompt := prompts.Format(template, map[string]string{
				"Topic":         st.Topic,
				"SearchResults": searchBlock,
			})

			text, err := client.Generate(ctx, prompt, llm.StageResearch)
			if err != nil {
				return st, fmt.Errorf("findings extraction failed: %w", err)
			}

			findings := splitLines(text)
			if len(findings) == 0 {
				return st, fmt.Errorf("findings extraction returned no usable lines")
			}

			elapsed := time.Since(start)

			out := st.Clone()
			out.ResearchFindings = findings
			out.ResearchSources = sources
			out.Status = state.StatusResearchComplete
			out.AppendMessage(fmt.Sprintf("Research completed: %d findings in %.1fs", len(findings), elapsed.Seconds()))
			out.RecordMetrics(NameResearch, measure(elapsed, len(findings), th))
			return out, nil
		},
	}
}
