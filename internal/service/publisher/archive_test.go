package publisher

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file with parent directories.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// archiveNames lists the entry names of a zip file.
func archiveNames(t *testing.T, path string) map[string]bool {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)

	defer func() {
		_ = reader.Close()
	}()

	names := make(map[string]bool, len(reader.File))
	for _, file := range reader.File {
		names[file.Name] = true
	}

	return names
}

// TestPackage_AllowList ensures only the listed paths reach the archive.
func TestPackage_AllowList(t *testing.T) {
	t.Parallel()

	sourceDir := t.TempDir()
	writeFile(t, filepath.Join(sourceDir, "pack.mcmeta"), `{"pack":{}}`)
	writeFile(t, filepath.Join(sourceDir, "assets", "minecraft", "textures", "panorama_0.png"), "png")
	writeFile(t, filepath.Join(sourceDir, "README.md"), "not shipped")
	writeFile(t, filepath.Join(sourceDir, ".git", "config"), "not shipped either")

	outputZip := filepath.Join(t.TempDir(), "pack-1.0.0-pf15.zip")

	require.NoError(t, Package(context.Background(), sourceDir, []string{"assets", "pack.mcmeta"}, outputZip))

	names := archiveNames(t, outputZip)
	require.True(t, names["pack.mcmeta"])
	require.True(t, names["assets/minecraft/textures/panorama_0.png"])
	require.False(t, names["README.md"])
	require.False(t, names[".git/config"])

	// Staging directory is cleaned up.
	entries, err := os.ReadDir(filepath.Dir(outputZip))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestPackage_MissingIncludeSkipped tolerates an absent allow-list entry.
func TestPackage_MissingIncludeSkipped(t *testing.T) {
	t.Parallel()

	sourceDir := t.TempDir()
	writeFile(t, filepath.Join(sourceDir, "pack.mcmeta"), `{"pack":{}}`)

	outputZip := filepath.Join(t.TempDir(), "pack.zip")

	require.NoError(t, Package(context.Background(), sourceDir, []string{"assets", "pack.mcmeta"}, outputZip))

	names := archiveNames(t, outputZip)
	require.True(t, names["pack.mcmeta"])
	require.Len(t, names, 1)
}

// TestDefaultNameAndChangelog covers single and multi version derivations.
func TestDefaultNameAndChangelog(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Minecraft 1.21", defaultName([]string{"1.21"}))
	require.Equal(t, "Minecraft 1.20-1.20.1", defaultName([]string{"1.20", "1.20.1"}))

	require.Equal(t, "Auto-updated resource pack for Minecraft 1.21",
		defaultChangelog([]string{"1.21"}))
	require.Equal(t, "Auto-updated resource pack for Minecraft 1.20 through 1.21 (3 versions)",
		defaultChangelog([]string{"1.20", "1.20.1", "1.21"}))
}
