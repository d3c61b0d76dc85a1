package modrinth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a test server with short timeouts.
func newTestClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()

	return NewClient(&Options{
		BaseURL:           serverURL,
		Token:             token,
		UserAgent:         "test-agent",
		LookupTimeout:     time.Second,
		UploadTimeout:     time.Second,
		RequestsPerSecond: 100,
	})
}

// TestResolveProjectID_Found returns the canonical id.
func TestResolveProjectID_Found(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/project/classic-panorama", r.URL.Path)

		_, _ = w.Write([]byte(`{"id": "AbCdEf12", "slug": "classic-panorama"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	id, found, err := client.ResolveProjectID(context.Background(), "classic-panorama")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "AbCdEf12", id)
}

// TestResolveProjectID_NotFound treats 404 as expected absence, not an error.
func TestResolveProjectID_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	id, found, err := client.ResolveProjectID(context.Background(), "brand-new-pack")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, id)
}

// TestResolveProjectID_ServerError is fatal, unlike 404.
func TestResolveProjectID_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	_, _, err := client.ResolveProjectID(context.Background(), "classic-panorama")
	require.Error(t, err)
}

// TestResolveProjectID_AlternateField accepts project_id when id is absent.
func TestResolveProjectID_AlternateField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"project_id": "XyZ98765"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	id, found, err := client.ResolveProjectID(context.Background(), "classic-panorama")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "XyZ98765", id)
}

// TestFetchVersions_FoldsSnapshot aggregates game versions and artifact coverage.
func TestFetchVersions_FoldsSnapshot(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/project/AbCdEf12/version", r.URL.Path)

		_, _ = w.Write([]byte(`[
			{"version_number": "1.0.0-pf15", "game_versions": ["1.20", "1.20.1"]},
			{"version_number": "1.0.0-pf18", "game_versions": ["1.21"]},
			{"version_number": "", "game_versions": ["1.19"]}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	snapshot, err := client.FetchVersions(context.Background(), "AbCdEf12")
	require.NoError(t, err)

	require.Len(t, snapshot.GameVersions, 4)
	require.True(t, snapshot.HasGameVersion("1.19"))
	require.True(t, snapshot.HasGameVersion("1.20.1"))

	require.Len(t, snapshot.PackVersions, 2)
	require.Equal(t, []string{"1.20", "1.20.1"}, snapshot.PackVersions["1.0.0-pf15"])
}

// TestCreateVersion_Multipart checks both parts and the credential header.
func TestCreateVersion_Multipart(t *testing.T) {
	t.Parallel()

	archivePath := filepath.Join(t.TempDir(), "pack-1.0.0-pf15.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("zip-bytes"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/version", r.URL.Path)
		require.Equal(t, "mrp_test_token", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))

		var metadata map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &metadata))
		require.Equal(t, "1.0.0-pf15", metadata["version_number"])
		require.Equal(t, "release", metadata["release_channel"])
		require.Equal(t, []any{"minecraft"}, metadata["loaders"])
		require.Equal(t, []any{"data"}, metadata["file_parts"])
		require.Equal(t, false, metadata["featured"])
		require.Empty(t, metadata["dependencies"])

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		require.Equal(t, "pack-1.0.0-pf15.zip", header.Filename)

		contents, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "zip-bytes", string(contents))

		_, _ = w.Write([]byte(`{"id": "new-version"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "mrp_test_token")

	err := client.CreateVersion(context.Background(), &VersionUpload{
		ArchivePath:   archivePath,
		ProjectID:     "AbCdEf12",
		GameVersions:  []string{"1.20", "1.20.1"},
		VersionNumber: "1.0.0-pf15",
		Name:          "Minecraft 1.20-1.20.1",
		Changelog:     "Auto-updated resource pack",
	})
	require.NoError(t, err)
}

// TestCreateVersion_RegistryError truncates the error detail and fails.
func TestCreateVersion_RegistryError(t *testing.T) {
	t.Parallel()

	archivePath := filepath.Join(t.TempDir(), "pack.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("zip"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "unauthorized", "description": "invalid token"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "bad-token")

	err := client.CreateVersion(context.Background(), &VersionUpload{
		ArchivePath:   archivePath,
		ProjectID:     "AbCdEf12",
		GameVersions:  []string{"1.21"},
		VersionNumber: "1.0.0-pf18",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
