package pack

import "fmt"

// Release is a Minecraft release version paired with its resource pack format.
// Immutable once fetched from the catalog.
type Release struct {
	// Version is the game version identifier, e.g. "1.20.1".
	Version string
	// PackFormat is the resource pack binary format id for this release.
	PackFormat int
}

// RegistrySnapshot is the state of the Modrinth project at fetch time.
// A project that has never published anything yields an empty snapshot,
// which is a legitimate state rather than an error.
type RegistrySnapshot struct {
	// GameVersions is the set of game versions referenced by any published artifact.
	GameVersions map[string]struct{}
	// PackVersions maps an artifact version number, e.g. "1.0.0-pf15",
	// to the game versions that artifact declares support for.
	PackVersions map[string][]string
}

// NewRegistrySnapshot returns an empty snapshot.
func NewRegistrySnapshot() *RegistrySnapshot {
	return &RegistrySnapshot{
		GameVersions: make(map[string]struct{}),
		PackVersions: make(map[string][]string),
	}
}

// HasGameVersion reports whether any published artifact covers the given game version.
func (s *RegistrySnapshot) HasGameVersion(version string) bool {
	_, ok := s.GameVersions[version]
	return ok
}

// FormatGroup aggregates every release sharing one pack format and the
// per-group upload decision. Groups are rebuilt from scratch on every run;
// they have no identity across runs.
type FormatGroup struct {
	// PackFormat is the group's partition key.
	PackFormat int `json:"pack_format"`
	// AllVersions lists every game version with this pack format, sorted.
	AllVersions []string `json:"all_versions"`
	// MissingVersions lists the subset not covered by any published artifact.
	MissingVersions []string `json:"missing_versions"`
	// NeedsUpload is the resolver's decision for this group.
	NeedsUpload bool `json:"needs_upload"`
	// VersionRange is "<first>-<last>" after sorting, or the single version.
	VersionRange string `json:"version_range"`
	// VersionNumber is the artifact version number, "<pack_version>-pf<format>".
	VersionNumber string `json:"version_number"`
	// DisplayName is a human label combining the format and the range.
	DisplayName string `json:"display_name"`
	// UploadReason explains the decision.
	UploadReason string `json:"upload_reason"`
}

// Resolution is the final report handed to the caller; it is the sole
// contract surface and serializes to JSON.
type Resolution struct {
	// PackVersion is the pack version the decisions were computed against.
	PackVersion string `json:"pack_version"`
	// Groups lists only the groups needing upload: the actionable worklist.
	Groups []*FormatGroup `json:"groups"`
	// AllGroups lists every group regardless of decision, for visibility.
	AllGroups []*FormatGroup `json:"all_groups"`
	// ModrinthGameVersions is the sorted flattened set of known remote game versions.
	ModrinthGameVersions []string `json:"modrinth_game_versions"`
	// ModrinthPackVersions lists the known remote artifact version numbers.
	ModrinthPackVersions []string `json:"modrinth_pack_versions"`
}

// VersionNumber builds the artifact version number for a pack version and format.
func VersionNumber(packVersion string, packFormat int) string {
	return fmt.Sprintf("%s-pf%d", packVersion, packFormat)
}
