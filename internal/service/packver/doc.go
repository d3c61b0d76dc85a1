// Package packver resolves the resource pack's own version string from an
// ordered chain of sources: an explicit override, the PACK_VERSION
// environment variable, a version.json manifest, a plain VERSION file, the
// CI tag reference, and finally the latest git tag reachable from HEAD.
//
// Each source is a named strategy; the first non-empty result wins. This is
// the pack's release version, not the build version of the tooling.
package packver
