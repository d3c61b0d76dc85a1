package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// packKey is the required top-level object of a pack.mcmeta document.
	packKey = "pack"
	// formatKey is the manifest field carrying the pack format.
	formatKey = "pack_format"
	// descriptionKey is the manifest field carrying the description.
	descriptionKey = "description"

	// autoUpdateMarker starts the suffix this tool appends to descriptions.
	// Stripping it before re-appending keeps repeated runs idempotent.
	autoUpdateMarker = " (Auto-updated"

	// fallbackDescription is used when the manifest has no description at all.
	fallbackDescription = "Resource Pack"

	// indent is the output indentation; the manifest is rewritten with
	// stable 2-space indentation and a trailing newline.
	indent = "  "
)

// ErrInvalidManifest is returned when the document is not a JSON object
// with a nested "pack" object.
var ErrInvalidManifest = errors.New("invalid pack.mcmeta structure")

// Patch rewrites a pack.mcmeta document for a specific target game version:
// it sets pack.pack_format and replaces the description with
// "<base> (Auto-updated for Minecraft <gameVersion>)".
//
// When baseDescription is empty it is derived from the current description
// by stripping any existing auto-update suffix, so repeated patches never
// stack suffixes. The transform is pure; the caller decides when the result
// is persisted.
func Patch(contents []byte, gameVersion string, packFormat int, baseDescription string) ([]byte, error) {
	var document map[string]any
	if err := json.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	section, ok := document[packKey].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q object", ErrInvalidManifest, packKey)
	}

	section[formatKey] = packFormat

	if baseDescription == "" {
		current, _ := section[descriptionKey].(string)
		baseDescription = BaseDescription(current)
	}

	section[descriptionKey] = fmt.Sprintf("%s (Auto-updated for Minecraft %s)",
		baseDescription, gameVersion)

	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", indent)
	encoder.SetEscapeHTML(false)

	// Encode appends the trailing newline the manifest format keeps.
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	return buffer.Bytes(), nil
}

// BaseDescription strips the auto-update suffix from a description,
// falling back to a generic label for empty input.
func BaseDescription(description string) string {
	if index := strings.Index(description, autoUpdateMarker); index >= 0 {
		description = description[:index]
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return fallbackDescription
	}

	return description
}
