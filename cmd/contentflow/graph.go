package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contentflow/contentflow/internal/pipeline"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print a mermaid diagram of the pipeline",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Print(pipeline.Mermaid())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
