package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packmill/packmill/internal/service/packver"
	"github.com/packmill/packmill/internal/version"
)

// rootCmd represents the base command for resolving the pack version.
var rootCmd = &cobra.Command{
	Use:   "pack-version [override]",
	Short: "Print the resolved pack version",
	Long:  "Resolve the resource pack version from the first available source: an explicit override, the PACK_VERSION environment variable, version.json, a VERSION file, the CI tag reference, or the latest git tag.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &packver.Options{
			Output: os.Stdout,
		}

		if len(args) > 0 {
			options.Override = args[0]
		}

		return packver.Run(ctx, options)
	},
}

// Execute runs the pack-version CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
