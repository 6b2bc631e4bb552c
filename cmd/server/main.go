package main

import (
	"os"

	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "social-api",
		Short:         "Social network REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg = config.Load()
			logger.Init(logger.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes and migrate the PostgreSQL schema, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ensureSchema(cmd.Context(), cfg)
		},
	})
	return root
}
