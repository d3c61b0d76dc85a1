// Package version exposes build metadata for the project.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Helper functions Short and Full render the version string for CLI output and logs.
//
// Note that the build version of the tooling is unrelated to the pack version
// being published; the latter is resolved by internal/service/packver.
package version
