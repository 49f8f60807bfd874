package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/prompts"
	"github.com/contentflow/contentflow/internal/state"
)

// emailBodyTemplate is the fixed structure of the outgoing newsletter email.
const emailBodyTemplate = `<h2>%s</h2>

%s

<p><a href="#">Read Full Article</a></p>

<hr>
<p>Generated on %s</p>
`

// Newsletter builds the stage that condenses the article into an email-ready
// summary and renders the outgoing message.
func Newsletter(client llm.Client, th config.StageThresholds) Stage {
	return Stage{
		Name: NameNewsletter,
		Run: func(ctx context.Context, st state.PipelineState) (state.PipelineState, error) {
			if st.FullArticle == "" || st.ArticleTitle == "" {
				return st, fmt.Errorf("newsletter requires a written article and title")
			}

			start := time.Now()

			prompt := prompts.Format(prompts.MustGet("newsletter.json", "summarize"), map[string]string{
				"Title":   st.ArticleTitle,
				"Article": st.FullArticle,
			})

			summary, err := client.Generate(ctx, prompt, llm.StageNewsletter)
			if err != nil {
				return st, fmt.Errorf("summary generation failed: %w", err)
			}

			elapsed := time.Since(start)
			words := wordCount(summary)

			out := st.Clone()
			out.NewsletterSummary = summary
			out.EmailSubject = fmt.Sprintf("Newsletter: %s", st.ArticleTitle)
			out.EmailBody = fmt.Sprintf(emailBodyTemplate,
				st.ArticleTitle, summary, time.Now().Format("January 2, 2006"))
			out.Status = state.StatusNewsletterComplete
			out.AppendMessage(fmt.Sprintf("Newsletter created in %.1fs (%d word summary)", elapsed.Seconds(), words))
			out.RecordMetrics(NameNewsletter, measure(elapsed, words, th))
			return out, nil
		},
	}
}
