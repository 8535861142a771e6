package main

import (
	"os"

	"github.com/spf13/cobra"

	"poolhub/internal/interfaces/cli/migrate"
	"poolhub/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "poolhub",
		Short: "PoolHub - pool telemetry ingestion service",
		Long:  `PoolHub ingests pool telemetry from third-party providers: webhook intake, device discovery, and a persistent retry queue.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
