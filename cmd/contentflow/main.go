// Package main provides the entry point for the ContentFlow newsletter service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentflow",
	Short: "AI-powered newsletter generation service",
	Long:  "ContentFlow generates newsletter articles from a topic by chaining research, writing, and summarization stages over an LLM, exposed via REST API and CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
