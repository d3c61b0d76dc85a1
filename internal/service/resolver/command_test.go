package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packmill/packmill/internal/config"
	"github.com/packmill/packmill/internal/domain/pack"
)

// TestRun_EndToEnd drives the full workflow against stub catalog and
// registry servers and checks the printed report.
func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": "1.20", "type": "release", "resource_pack_version": 15},
			{"id": "1.20.1", "type": "release", "resource_pack_version": 15},
			{"id": "1.21", "type": "release", "resource_pack_version": 18}
		]`))
	}))
	defer catalog.Close()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/project/classic-panorama":
			_, _ = w.Write([]byte(`{"id": "AbCdEf12"}`))
		case "/project/AbCdEf12/version":
			_, _ = w.Write([]byte(`[
				{"version_number": "1.0.0-pf15", "game_versions": ["1.20", "1.20.1"]}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer registry.Close()

	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(configPath, &config.Config{
		Project:         "classic-panorama",
		CatalogURL:      catalog.URL,
		ModrinthBaseURL: registry.URL,
	}))

	var output bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath:          configPath,
		PackVersionOverride: "1.0.0",
		Output:              &output,
	})
	require.NoError(t, err)

	var resolution pack.Resolution
	require.NoError(t, json.Unmarshal(output.Bytes(), &resolution))

	require.Equal(t, "1.0.0", resolution.PackVersion)
	require.Len(t, resolution.AllGroups, 2)
	require.Len(t, resolution.Groups, 1)
	require.Equal(t, 18, resolution.Groups[0].PackFormat)
	require.Equal(t, "1.0.0-pf18", resolution.Groups[0].VersionNumber)
	require.Equal(t, []string{"1.20", "1.20.1"}, resolution.ModrinthGameVersions)
}

// TestRun_ProjectNotFound publishes everything on the first-ever upload.
func TestRun_ProjectNotFound(t *testing.T) {
	t.Parallel()

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": "1.21", "type": "release", "resource_pack_version": 18}
		]`))
	}))
	defer catalog.Close()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer registry.Close()

	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(configPath, &config.Config{
		Project:         "brand-new-pack",
		CatalogURL:      catalog.URL,
		ModrinthBaseURL: registry.URL,
	}))

	var output bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath:          configPath,
		PackVersionOverride: "1.0.0",
		Output:              &output,
	})
	require.NoError(t, err)

	var resolution pack.Resolution
	require.NoError(t, json.Unmarshal(output.Bytes(), &resolution))

	require.Len(t, resolution.Groups, 1)
	require.True(t, resolution.Groups[0].NeedsUpload)
	require.Empty(t, resolution.ModrinthGameVersions)
	require.Empty(t, resolution.ModrinthPackVersions)
}

// TestRun_CatalogDown terminates the run.
func TestRun_CatalogDown(t *testing.T) {
	t.Parallel()

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer catalog.Close()

	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(configPath, &config.Config{
		Project:         "classic-panorama",
		CatalogURL:      catalog.URL,
		ModrinthBaseURL: "http://127.0.0.1:0",
	}))

	var output bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath:          configPath,
		PackVersionOverride: "1.0.0",
		Output:              &output,
	})
	require.Error(t, err)
	require.Zero(t, output.Len())
}
