package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/packmill/packmill/internal/config"
	"github.com/packmill/packmill/internal/logger"
	"github.com/packmill/packmill/internal/service/publisher"
	"github.com/packmill/packmill/internal/version"
)

// envToken is the environment fallback for the API credential.
const envToken = "MODRINTH_TOKEN"

var (
	// configPath to the configuration YAML file.
	configPath string

	// token is the Modrinth API credential; falls back to MODRINTH_TOKEN.
	token string

	// outputZip optionally overrides the archive path.
	outputZip string

	// versionName optionally overrides the generated version name.
	versionName string

	// changelog optionally overrides the generated changelog.
	changelog string

	// logLevel controls diagnostic verbosity on stderr.
	logLevel string

	// rootCmd represents the base command for packaging and uploading one version.
	rootCmd = &cobra.Command{
		Use:   "pack-publisher [project-id] [version-number] [game-versions-csv]",
		Short: "Package the resource pack and upload one version to Modrinth",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			if token == "" {
				token = os.Getenv(envToken)
			}

			options := &publisher.Options{
				ConfigPath:    configPath,
				ProjectID:     args[0],
				VersionNumber: args[1],
				GameVersions:  splitGameVersions(args[2]),
				Token:         token,
				OutputZip:     outputZip,
				Name:          versionName,
				Changelog:     changelog,
			}

			return publisher.Run(ctx, options)
		},
	}
)

// splitGameVersions parses the comma-separated game version argument.
func splitGameVersions(csv string) []string {
	parts := strings.Split(csv, ",")
	versions := make([]string, 0, len(parts))

	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			versions = append(versions, v)
		}
	}

	return versions
}

// Execute runs the pack-publisher CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&token, "token", "t", "", "Modrinth API token (defaults to MODRINTH_TOKEN)")
	rootCmd.Flags().StringVarP(&outputZip, "output-zip", "o", "", "path of the archive to produce")
	rootCmd.Flags().StringVar(&versionName, "name", "", "version name shown on Modrinth")
	rootCmd.Flags().StringVar(&changelog, "changelog", "", "release changelog")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")
}
