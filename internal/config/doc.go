// Package config defines publishing settings used by the pack binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the Modrinth project, the pack source layout, remote
// API endpoints, and per-call timeouts.
package config
