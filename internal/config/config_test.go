package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults, and URL validation.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil configuration.
	err := Validate(nil)
	require.Error(t, err)

	// Bad catalog URL.
	cfg := &Config{
		Project:    "classic-panorama",
		CatalogURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay; defaults filled in.
	cfg = &Config{
		Project: "classic-panorama",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultCatalogURL, cfg.CatalogURL)
	require.Equal(t, DefaultModrinthBaseURL, cfg.ModrinthBaseURL)
	require.Equal(t, DefaultIncludePaths(), cfg.IncludePaths)
	require.Equal(t, filepath.Join(".", DefaultManifestFilename), cfg.ManifestPath)
	require.Equal(t, DefaultCatalogTimeout, cfg.CatalogTimeout)
	require.Equal(t, DefaultLookupTimeout, cfg.LookupTimeout)
	require.Equal(t, DefaultUploadTimeout, cfg.UploadTimeout)
	require.InDelta(t, float64(DefaultRequestsPerSecond), cfg.RequestsPerSecond, 0.01)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		Project:        "classic-panorama",
		PackDir:        "pack",
		IncludePaths:   []string{"assets", "pack.mcmeta", "pack.png"},
		CatalogTimeout: 15 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Project, loaded.Project)
	require.Equal(t, cfg.PackDir, loaded.PackDir)
	require.Equal(t, cfg.IncludePaths, loaded.IncludePaths)
	require.Equal(t, cfg.CatalogTimeout, loaded.CatalogTimeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
