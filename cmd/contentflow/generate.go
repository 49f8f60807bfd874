package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	generateTopic  string
	generateEmail  string
	generateConfig string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a newsletter for a topic",
	Long:  `Run the research, writer, and newsletter stages once and print the result.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateTopic, "topic", "", "Topic to research and write about (required)")
	generateCmd.Flags().StringVar(&generateEmail, "email", "", "Recipient email address (required)")
	generateCmd.Flags().StringVar(&generateConfig, "config", "", "Path to JSON config file")
	_ = generateCmd.MarkFlagRequired("topic")
	_ = generateCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(generateConfig)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	workflow, err := buildWorkflow(ctx, cfg)
	if err != nil {
		return err
	}

	result := workflow.Run(ctx, generateTopic, generateEmail)
	if !result.Success {
		return fmt.Errorf("workflow failed: %s", result.Error)
	}

	final := result.Data
	fmt.Printf("Thread ID: %s\n\n", result.ThreadID)
	fmt.Printf("Title:    %s\n", final.ArticleTitle)
	fmt.Printf("Subject:  %s\n\n", final.EmailSubject)
	fmt.Printf("%s\n\n", final.FullArticle)
	fmt.Printf("--- Newsletter summary ---\n%s\n\n", final.NewsletterSummary)
	for name, m := range final.PerformanceMetrics {
		fmt.Printf("%-10s %6.1fs  count=%-4d within_duration=%t meets_minimum=%t\n",
			name, m.DurationSeconds, m.Count, m.WithinDuration, m.MeetsMinimum)
	}
	return nil
}
