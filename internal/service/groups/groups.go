package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/packmill/packmill/internal/domain/pack"
	"github.com/packmill/packmill/internal/logger"
)

// DefaultReportFilename is the resolution report the workflow writes.
const DefaultReportFilename = "versions_to_update.json"

// Options contains inputs for the pack-groups entry point.
type Options struct {
	// ReportPath is the resolution report JSON file to read.
	ReportPath string
	// Output receives the environment-style lines.
	Output io.Writer
}

// Run reads a resolution report file and prints its upload groups as
// environment-style lines for CI matrix fan-out.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pack-groups")

	path := opts.ReportPath
	if path == "" {
		path = DefaultReportFilename
	}

	report, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}

	defer func() {
		_ = report.Close()
	}()

	if err = Extract(report, opts.Output); err != nil {
		return fmt.Errorf("extract groups from %s: %w", path, err)
	}

	return nil
}

// Extract decodes a resolution report and writes one line per group field:
//
//	GROUP_<i>_VERSIONS=<comma-joined versions>
//	GROUP_<i>_PACK_FORMAT=<format>
//	GROUP_<i>_VERSION_NUMBER=<artifact version number>
//
// followed by TOTAL_GROUPS=<n>.
func Extract(r io.Reader, w io.Writer) error {
	var resolution pack.Resolution
	if err := json.NewDecoder(r).Decode(&resolution); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	for i, group := range resolution.Groups {
		if _, err := fmt.Fprintf(w, "GROUP_%d_VERSIONS=%s\n",
			i, strings.Join(group.AllVersions, ",")); err != nil {
			return fmt.Errorf("write group line: %w", err)
		}

		if _, err := fmt.Fprintf(w, "GROUP_%d_PACK_FORMAT=%d\n", i, group.PackFormat); err != nil {
			return fmt.Errorf("write group line: %w", err)
		}

		if _, err := fmt.Fprintf(w, "GROUP_%d_VERSION_NUMBER=%s\n", i, group.VersionNumber); err != nil {
			return fmt.Errorf("write group line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "TOTAL_GROUPS=%d\n", len(resolution.Groups)); err != nil {
		return fmt.Errorf("write total line: %w", err)
	}

	return nil
}
