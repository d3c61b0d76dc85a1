package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/packmill/packmill/internal/logger"
)

// manifestFileMode keeps the manifest readable by the packaging step.
const manifestFileMode os.FileMode = 0o644

// Options contains inputs for the pack-updater entry point.
type Options struct {
	// ManifestPath is the pack.mcmeta file to rewrite in place.
	ManifestPath string
	// GameVersion is the target Minecraft version named in the description.
	GameVersion string
	// PackFormat is the format id written to the manifest.
	PackFormat int
	// BaseDescription optionally replaces the derived base description.
	BaseDescription string
}

// Run patches the manifest file in place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pack-updater")

	if err := UpdateFile(ctx, opts.ManifestPath, opts.GameVersion, opts.PackFormat, opts.BaseDescription); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Updated manifest",
		"path", opts.ManifestPath,
		"game_version", opts.GameVersion,
		"pack_format", opts.PackFormat)

	return nil
}

// UpdateFile reads the manifest, applies Patch, and writes the result back.
// Missing files and invalid JSON surface as returned errors.
func UpdateFile(_ context.Context, path, gameVersion string, packFormat int, baseDescription string) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	patched, err := Patch(contents, gameVersion, packFormat, baseDescription)
	if err != nil {
		return fmt.Errorf("patch manifest %s: %w", path, err)
	}

	if err = os.WriteFile(filepath.Clean(path), patched, manifestFileMode); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
