package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds publishing parameters shared by the pack binaries.
type Config struct {
	// Project is the Modrinth project ID or slug the pack is published to.
	Project string `yaml:"project"`
	// PackDir is the root directory of the resource pack sources.
	PackDir string `yaml:"pack_dir"`
	// ManifestPath is the path to the pack.mcmeta manifest inside PackDir.
	ManifestPath string `yaml:"manifest_path"`
	// IncludePaths lists the paths (relative to PackDir) packaged into release archives.
	// Anything outside this allow-list never reaches the archive.
	IncludePaths []string `yaml:"include_paths"`
	// BaseDescription is the manifest description without the auto-update suffix.
	BaseDescription string `yaml:"base_description"`
	// CatalogURL is the endpoint serving Minecraft release metadata with pack formats.
	CatalogURL string `yaml:"catalog_url"`
	// ModrinthBaseURL is the base URL of the Modrinth REST API.
	ModrinthBaseURL string `yaml:"modrinth_base_url"`
	// UserAgent identifies this tool to remote APIs.
	UserAgent string `yaml:"user_agent"`
	// CatalogTimeout bounds the release catalog fetch.
	CatalogTimeout time.Duration `yaml:"catalog_timeout"`
	// LookupTimeout bounds project lookup and version listing calls.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	// UploadTimeout bounds the version upload call.
	UploadTimeout time.Duration `yaml:"upload_timeout"`
	// RequestsPerSecond caps the request rate against the Modrinth API.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

const (
	// DefaultConfigFilename is the default filename for publisher settings.
	DefaultConfigFilename = "pack-publisher-settings.yaml"

	// DefaultCatalogURL serves community-maintained version metadata,
	// including resource pack formats per release.
	DefaultCatalogURL = "https://raw.githubusercontent.com/misode/mcmeta/summary/versions/data.json"

	// DefaultModrinthBaseURL is the production Modrinth API.
	DefaultModrinthBaseURL = "https://api.modrinth.com/v2"

	// DefaultUserAgent identifies the publisher to remote APIs.
	DefaultUserAgent = "packmill-pack-publisher/1.0"

	// DefaultManifestFilename is the standard resource pack manifest name.
	DefaultManifestFilename = "pack.mcmeta"

	// DefaultCatalogTimeout is the default bound for the release catalog fetch.
	DefaultCatalogTimeout = 30 * time.Second

	// DefaultLookupTimeout is the default bound for registry lookups.
	DefaultLookupTimeout = 10 * time.Second

	// DefaultUploadTimeout is the default bound for version uploads.
	DefaultUploadTimeout = 30 * time.Second

	// DefaultRequestsPerSecond is a polite request rate for the Modrinth API.
	DefaultRequestsPerSecond = 4

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// DefaultIncludePaths returns the paths packaged into release archives
// when the settings file does not override them.
func DefaultIncludePaths() []string {
	return []string{"assets", DefaultManifestFilename}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	// Project stays optional here: the binaries accept it as an argument,
	// and only the workflows that talk to the registry need it at all.
	if cfg.PackDir == "" {
		cfg.PackDir = "."
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = filepath.Join(cfg.PackDir, DefaultManifestFilename)
	}

	if len(cfg.IncludePaths) == 0 {
		cfg.IncludePaths = DefaultIncludePaths()
	}

	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}

	if cfg.ModrinthBaseURL == "" {
		cfg.ModrinthBaseURL = DefaultModrinthBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = DefaultCatalogTimeout
	}

	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}

	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	if _, err := url.ParseRequestURI(cfg.CatalogURL); err != nil {
		return fmt.Errorf("invalid catalog URL: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.ModrinthBaseURL); err != nil {
		return fmt.Errorf("invalid Modrinth base URL: %w", err)
	}

	return nil
}
