package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packmill/packmill/internal/config"
	"github.com/packmill/packmill/internal/logger"
	"github.com/packmill/packmill/internal/service/resolver"
	"github.com/packmill/packmill/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// packVersionOverride short-circuits the pack version source chain.
	packVersionOverride string

	// logLevel controls diagnostic verbosity on stderr.
	logLevel string

	// rootCmd represents the base command for resolving stale format groups.
	rootCmd = &cobra.Command{
		Use:   "pack-resolver [project-id-or-slug]",
		Short: "Resolve which pack format groups need uploading to Modrinth",
		Long:  "Fetch the Minecraft release catalog and the Modrinth project's published versions, group releases by resource pack format, and print a JSON report of the groups whose artifacts are missing or stale. Diagnostics go to stderr; the report goes to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &resolver.Options{
				ConfigPath:          configPath,
				PackVersionOverride: packVersionOverride,
				Output:              os.Stdout,
			}

			if len(args) > 0 {
				options.Project = args[0]
			}

			return resolver.Run(ctx, options)
		},
	}
)

// Execute runs the pack-resolver CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&packVersionOverride, "pack-version", "", "explicit pack version, overriding the source chain")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")
}
