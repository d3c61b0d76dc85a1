package packver

import (
	"context"
	"fmt"
	"io"

	"github.com/packmill/packmill/internal/logger"
)

// Options contains inputs for the pack-version entry point.
type Options struct {
	// Override short-circuits the source chain when non-empty.
	Override string
	// Dir is the directory the file and repository sources are rooted at.
	Dir string
	// Output receives the bare version string.
	Output io.Writer
}

// Run resolves the pack version and prints it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pack-version")

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	version, source, err := Resolve(ctx, dir, opts.Override)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Resolved pack version", "pack_version", version, "source", source)

	if _, err = fmt.Fprintln(opts.Output, version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	return nil
}
