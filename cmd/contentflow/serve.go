package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/contentflow/contentflow/internal/email"
	"github.com/contentflow/contentflow/internal/server"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating newsletters and inspecting workflow runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfig)
	if err != nil {
		return err
	}
	if cfg.Port == 0 {
		cfg.Port = servePort
	}

	workflow, err := buildWorkflow(context.Background(), cfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Workflow: workflow,
		Sender:   email.LogSender{},
	})
	return srv.Start()
}
