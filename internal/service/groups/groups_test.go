package groups

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleReport is a resolution report with one upload group.
const sampleReport = `{
  "pack_version": "1.0.0",
  "groups": [
    {
      "pack_format": 18,
      "all_versions": ["1.21", "1.21.1"],
      "missing_versions": ["1.21.1"],
      "needs_upload": true,
      "version_range": "1.21-1.21.1",
      "version_number": "1.0.0-pf18",
      "display_name": "Pack Format 18 (1.21-1.21.1)",
      "upload_reason": "New Minecraft versions: 1.21.1"
    }
  ],
  "all_groups": [],
  "modrinth_game_versions": [],
  "modrinth_pack_versions": []
}`

// TestExtract emits one line per field plus the total.
func TestExtract(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	require.NoError(t, Extract(strings.NewReader(sampleReport), &output))

	require.Equal(t,
		"GROUP_0_VERSIONS=1.21,1.21.1\n"+
			"GROUP_0_PACK_FORMAT=18\n"+
			"GROUP_0_VERSION_NUMBER=1.0.0-pf18\n"+
			"TOTAL_GROUPS=1\n",
		output.String())
}

// TestExtract_Empty still reports the total for zero groups.
func TestExtract_Empty(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	require.NoError(t, Extract(strings.NewReader(`{"groups": []}`), &output))
	require.Equal(t, "TOTAL_GROUPS=0\n", output.String())
}

// TestExtract_BadJSON surfaces the decode failure.
func TestExtract_BadJSON(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	require.Error(t, Extract(strings.NewReader("{broken"), &output))
}
