// Package manifest rewrites a resource pack's pack.mcmeta for a specific
// target game version: the pack format field and an auto-update description
// suffix.
//
// Patch is a pure transform over the document bytes; UpdateFile is the thin
// read-modify-write wrapper the pack-updater binary uses.
package manifest
