package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packmill/packmill/internal/service/manifest"
	"github.com/packmill/packmill/internal/version"
)

// rootCmd represents the base command for patching pack.mcmeta.
var rootCmd = &cobra.Command{
	Use:   "pack-updater [manifest-path] [game-version] [pack-format] [base-description]",
	Short: "Update pack.mcmeta for a target Minecraft version",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		packFormat, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("pack format must be an integer, got %q: %w", args[2], err)
		}

		options := &manifest.Options{
			ManifestPath: args[0],
			GameVersion:  args[1],
			PackFormat:   packFormat,
		}

		if len(args) > 3 {
			options.BaseDescription = args[3]
		}

		return manifest.Run(ctx, options)
	},
}

// Execute runs the pack-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
