package stage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/prompts"
	"github.com/contentflow/contentflow/internal/state"
)

// Writer builds the stage that drafts the full article and its title. The two
// generation calls are independent and run concurrently; a failure in either
// aborts the pipeline.
func Writer(client llm.Client, th config.StageThresholds) Stage {
	return Stage{
		Name: NameWriter,
		Run: func(ctx context.Context, st state.PipelineState) (state.PipelineState, error) {
			if len(st.ResearchFindings) == 0 {
				return st, fmt.Errorf("writer requires research findings, none present")
			}

			start := time.Now()
			research := strings.Join(st.ResearchFindings, "\n")

			articlePrompt := prompts.Format(prompts.MustGet("writer.json", "write-article"), map[string]string{
				"Topic":    st.Topic,
				"Research": research,
			})
			titlePrompt := prompts.Format(prompts.MustGet("writer.json", "create-title"), map[string]string{
				"Topic": st.Topic,
			})

			var article, title string
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				text, err := client.Generate(gctx, articlePrompt, llm.StageWriter)
				if err != nil {
					return fmt.Errorf("article generation failed: %w", err)
				}
				article = strings.TrimSpace(text)
				return nil
			})
			g.Go(func() error {
				text, err := client.Generate(gctx, titlePrompt, llm.StageWriter)
				if err != nil {
					return fmt.Errorf("title generation failed: %w", err)
				}
				title = strings.TrimSpace(text)
				return nil
			})
			if err := g.Wait(); err != nil {
				return st, err
			}

			if article == "" || title == "" {
				return st, fmt.Errorf("writer produced empty article or title")
			}

			elapsed := time.Since(start)
			words := wordCount(article)

			out := st.Clone()
			out.FullArticle = article
			out.ArticleTitle = title
			out.Status = state.StatusWritingComplete
			out.AppendMessage(fmt.Sprintf("Article written in %.1fs (%d words)", elapsed.Seconds(), words))
			out.RecordMetrics(NameWriter, measure(elapsed, words, th))
			return out, nil
		},
	}
}
