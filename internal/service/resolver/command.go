package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/packmill/packmill/internal/client/mcmeta"
	"github.com/packmill/packmill/internal/client/modrinth"
	"github.com/packmill/packmill/internal/config"
	"github.com/packmill/packmill/internal/domain/pack"
	"github.com/packmill/packmill/internal/logger"
	"github.com/packmill/packmill/internal/service/packver"
)

// errProjectRequired is returned when neither the argument
// nor the settings file names a Modrinth project.
var errProjectRequired = errors.New("modrinth project ID or slug must be provided")

// Options contains inputs for the resolver entry point.
type Options struct {
	// ConfigPath is the path to the settings YAML file.
	ConfigPath string
	// Project optionally overrides the configured Modrinth project ID or slug.
	Project string
	// PackVersionOverride short-circuits the pack version source chain.
	PackVersionOverride string
	// Output receives the JSON resolution report (stdout in the binaries).
	Output io.Writer
}

// Run executes the full resolution workflow: fetch both catalogs, resolve
// the pack version, group releases by pack format, and write the report.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pack-resolver")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	project := cfg.Project
	if opts.Project != "" {
		project = opts.Project
	}

	if project == "" {
		return errProjectRequired
	}

	packVersion, source, err := packver.Resolve(ctx, ".", opts.PackVersionOverride)
	if err != nil {
		return fmt.Errorf("resolve pack version: %w", err)
	}

	logger.InfoKV(ctx, "Resolved pack version", "pack_version", packVersion, "source", source)

	catalog := mcmeta.NewClient(cfg.CatalogURL, cfg.UserAgent, cfg.CatalogTimeout)

	releases, err := catalog.FetchReleases(ctx)
	if err != nil {
		return err
	}

	registry := modrinth.NewClient(&modrinth.Options{
		BaseURL:           cfg.ModrinthBaseURL,
		UserAgent:         cfg.UserAgent,
		LookupTimeout:     cfg.LookupTimeout,
		UploadTimeout:     cfg.UploadTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	snapshot, err := fetchSnapshot(ctx, registry, project)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Fetched registry snapshot",
		"game_versions", len(snapshot.GameVersions),
		"pack_versions", len(snapshot.PackVersions))

	groups := GroupByFormat(releases, snapshot, packVersion)
	resolution := BuildResolution(packVersion, groups, snapshot)

	logGroupSummary(ctx, resolution)

	encoder := json.NewEncoder(opts.Output)
	if err = encoder.Encode(resolution); err != nil {
		return fmt.Errorf("encode resolution report: %w", err)
	}

	return nil
}

// fetchSnapshot resolves the project and lists its versions. A project that
// does not exist yet yields an empty snapshot: every group will need upload.
func fetchSnapshot(ctx context.Context, registry *modrinth.Client, project string) (*pack.RegistrySnapshot, error) {
	projectID, found, err := registry.ResolveProjectID(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}

	if !found {
		return pack.NewRegistrySnapshot(), nil
	}

	snapshot, err := registry.FetchVersions(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch registry versions: %w", err)
	}

	return snapshot, nil
}

// logGroupSummary reports the per-group decisions, stale groups first.
func logGroupSummary(ctx context.Context, resolution *pack.Resolution) {
	if len(resolution.Groups) == 0 {
		logger.Info(ctx, "All pack formats are up-to-date")
		return
	}

	stale := append([]*pack.FormatGroup(nil), resolution.Groups...)
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].PackFormat > stale[j].PackFormat
	})

	logger.InfoKV(ctx, "Found pack format groups to upload", "count", len(stale))

	for _, group := range stale {
		logger.InfoKV(ctx, "Group needs upload",
			"pack_format", group.PackFormat,
			"version_range", group.VersionRange,
			"reason", group.UploadReason)
	}
}
