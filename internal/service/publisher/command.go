package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/packmill/packmill/internal/client/modrinth"
	"github.com/packmill/packmill/internal/config"
	"github.com/packmill/packmill/internal/logger"
)

// Options contains inputs for the publisher entry point.
type Options struct {
	// ConfigPath is the path to the settings YAML file.
	ConfigPath string
	// ProjectID is the canonical Modrinth project id to publish under.
	ProjectID string
	// VersionNumber is the artifact version number, e.g. "1.0.0-pf15".
	VersionNumber string
	// GameVersions lists the game versions this artifact supports.
	GameVersions []string
	// Token is the Modrinth API credential.
	Token string
	// OutputZip optionally overrides the archive path.
	OutputZip string
	// Name optionally overrides the generated version name.
	Name string
	// Changelog optionally overrides the generated changelog.
	Changelog string
}

var (
	// errPublisherRunning indicates another publisher run is in flight.
	errPublisherRunning = errors.New("another publisher run is in flight")
	// errNoGameVersions indicates the caller supplied an empty version list.
	errNoGameVersions = errors.New("no game versions provided")
	// errNoToken indicates a missing API credential.
	errNoToken = errors.New("modrinth API token must be provided")
)

// Run packages the allow-listed pack contents and uploads one version.
// The archive is removed after a successful upload; cleanup failures are
// ignored. The upload is never retried here.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pack-publisher")

	if len(opts.GameVersions) == 0 {
		return errNoGameVersions
	}

	if opts.Token == "" {
		return errNoToken
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if IsPublisherRunningNow(ctx) {
		return errPublisherRunning
	}

	if err = WriteMarker(); err != nil {
		return fmt.Errorf("write publisher marker: %w", err)
	}

	defer func() {
		_ = RemoveMarker()
	}()

	outputZip := opts.OutputZip
	if outputZip == "" {
		outputZip = fmt.Sprintf("pack-%s.zip", opts.VersionNumber)
	}

	if err = Package(ctx, cfg.PackDir, cfg.IncludePaths, outputZip); err != nil {
		return fmt.Errorf("package archive: %w", err)
	}

	registry := modrinth.NewClient(&modrinth.Options{
		BaseURL:           cfg.ModrinthBaseURL,
		Token:             opts.Token,
		UserAgent:         cfg.UserAgent,
		LookupTimeout:     cfg.LookupTimeout,
		UploadTimeout:     cfg.UploadTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	upload := &modrinth.VersionUpload{
		ArchivePath:   outputZip,
		ProjectID:     opts.ProjectID,
		GameVersions:  opts.GameVersions,
		VersionNumber: opts.VersionNumber,
		Name:          opts.Name,
		Changelog:     opts.Changelog,
	}

	if upload.Name == "" {
		upload.Name = defaultName(opts.GameVersions)
	}

	if upload.Changelog == "" {
		upload.Changelog = defaultChangelog(opts.GameVersions)
	}

	if err = registry.CreateVersion(ctx, upload); err != nil {
		return err
	}

	// Best-effort cleanup.
	if err = os.Remove(outputZip); err != nil {
		logger.WarnKV(ctx, "Unable to remove archive after upload", "path", outputZip, "error", err)
	}

	logger.Info(ctx, "Publish workflow complete")

	return nil
}

// defaultName derives a version name from the supported game versions.
func defaultName(gameVersions []string) string {
	if len(gameVersions) == 1 {
		return "Minecraft " + gameVersions[0]
	}

	return fmt.Sprintf("Minecraft %s-%s", gameVersions[0], gameVersions[len(gameVersions)-1])
}

// defaultChangelog derives a changelog from the supported game versions.
func defaultChangelog(gameVersions []string) string {
	if len(gameVersions) == 1 {
		return "Auto-updated resource pack for Minecraft " + gameVersions[0]
	}

	return fmt.Sprintf("Auto-updated resource pack for Minecraft %s through %s (%d versions)",
		gameVersions[0], gameVersions[len(gameVersions)-1], len(gameVersions))
}
