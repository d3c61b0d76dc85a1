package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packmill/packmill/internal/service/groups"
	"github.com/packmill/packmill/internal/version"
)

// rootCmd represents the base command for extracting upload groups from a report.
var rootCmd = &cobra.Command{
	Use:   "pack-groups [report-path]",
	Short: "Print a resolution report's upload groups as environment lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &groups.Options{
			Output: os.Stdout,
		}

		if len(args) > 0 {
			options.ReportPath = args[0]
		}

		return groups.Run(ctx, options)
	},
}

// Execute runs the pack-groups CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
