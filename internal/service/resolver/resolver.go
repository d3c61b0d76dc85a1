package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/packmill/packmill/internal/domain/pack"
)

// maxReasonVersions bounds how many missing versions an upload reason names.
const maxReasonVersions = 3

// GroupByFormat partitions releases by pack format and decides, per group,
// whether an upload is needed. It is pure computation over already-fetched
// data: malformed releases must have been filtered upstream.
//
// The decision rules are evaluated in strict priority order; later rules can
// be vacuously true or false in ways that would mask a more specific cause
// if reordered:
//
//  1. the artifact version number has never been published for this format;
//  2. the catalog contains game versions no published artifact covers;
//  3. the published artifact's declared coverage differs from the group.
func GroupByFormat(releases []pack.Release, snapshot *pack.RegistrySnapshot, packVersion string) map[int]*pack.FormatGroup {
	groups := make(map[int]*pack.FormatGroup)

	for _, release := range releases {
		group, ok := groups[release.PackFormat]
		if !ok {
			group = &pack.FormatGroup{
				PackFormat:      release.PackFormat,
				AllVersions:     []string{},
				MissingVersions: []string{},
			}
			groups[release.PackFormat] = group
		}

		group.AllVersions = append(group.AllVersions, release.Version)

		if !snapshot.HasGameVersion(release.Version) {
			group.MissingVersions = append(group.MissingVersions, release.Version)
		}
	}

	for _, group := range groups {
		decideGroup(group, snapshot, packVersion)
	}

	return groups
}

// decideGroup derives the group's labels and its upload decision.
func decideGroup(group *pack.FormatGroup, snapshot *pack.RegistrySnapshot, packVersion string) {
	// Plain string sort, matching the ordering existing uploads were
	// labeled with. See DESIGN.md on "1.10" vs "1.9".
	sort.Strings(group.AllVersions)
	sort.Strings(group.MissingVersions)

	group.VersionRange = versionRange(group.AllVersions)
	group.VersionNumber = pack.VersionNumber(packVersion, group.PackFormat)
	group.DisplayName = fmt.Sprintf("Pack Format %d (%s)", group.PackFormat, group.VersionRange)

	declared, published := snapshot.PackVersions[group.VersionNumber]

	switch {
	case !published:
		// This pack version has never been uploaded for this format, even
		// if every game version happens to be covered by another artifact:
		// artifact version numbers are the publish unit, not game versions.
		group.NeedsUpload = true
		group.UploadReason = fmt.Sprintf("Pack version %s not on Modrinth for PF%d",
			packVersion, group.PackFormat)
	case len(group.MissingVersions) > 0:
		group.NeedsUpload = true
		group.UploadReason = "New Minecraft versions: " + summarizeVersions(group.MissingVersions)
	case !sameVersionSet(declared, group.AllVersions):
		// The artifact exists but its declared coverage drifted from the
		// catalog, e.g. upstream reclassified a version's format.
		group.NeedsUpload = true
		group.UploadReason = "Game version list mismatch"
	default:
		group.NeedsUpload = false
		group.UploadReason = "Up-to-date"
	}
}

// versionRange renders the sorted version list as a single version or "first-last".
func versionRange(versions []string) string {
	if len(versions) == 1 {
		return versions[0]
	}

	return versions[0] + "-" + versions[len(versions)-1]
}

// summarizeVersions names up to maxReasonVersions entries with an ellipsis beyond.
func summarizeVersions(versions []string) string {
	if len(versions) <= maxReasonVersions {
		return strings.Join(versions, ", ")
	}

	return strings.Join(versions[:maxReasonVersions], ", ") + "..."
}

// sameVersionSet compares two version lists as sets, order-insensitive.
func sameVersionSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	if len(setA) != len(setB) {
		return false
	}

	for v := range setA {
		if _, ok := setB[v]; !ok {
			return false
		}
	}

	return true
}

// BuildResolution assembles the final report from the computed groups.
// Groups are ordered by pack format ascending for deterministic output.
func BuildResolution(packVersion string, groups map[int]*pack.FormatGroup, snapshot *pack.RegistrySnapshot) *pack.Resolution {
	formats := make([]int, 0, len(groups))
	for format := range groups {
		formats = append(formats, format)
	}

	sort.Ints(formats)

	resolution := &pack.Resolution{
		PackVersion:          packVersion,
		Groups:               []*pack.FormatGroup{},
		AllGroups:            []*pack.FormatGroup{},
		ModrinthGameVersions: []string{},
		ModrinthPackVersions: []string{},
	}

	for _, format := range formats {
		group := groups[format]

		resolution.AllGroups = append(resolution.AllGroups, group)

		if group.NeedsUpload {
			resolution.Groups = append(resolution.Groups, group)
		}
	}

	for gameVersion := range snapshot.GameVersions {
		resolution.ModrinthGameVersions = append(resolution.ModrinthGameVersions, gameVersion)
	}

	sort.Strings(resolution.ModrinthGameVersions)

	for versionNumber := range snapshot.PackVersions {
		resolution.ModrinthPackVersions = append(resolution.ModrinthPackVersions, versionNumber)
	}

	sort.Strings(resolution.ModrinthPackVersions)

	return resolution
}
