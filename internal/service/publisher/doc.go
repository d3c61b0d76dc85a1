// Package publisher packages a resource pack into a zip archive and uploads
// it to Modrinth as one project version.
//
// Packaging stages an allow-list of paths into a clean directory before
// archiving, so unrelated files in the pack source tree never ship. A marker
// file guards against two publisher runs racing each other; stale markers
// are recovered the same way the rest of the tooling recovers stale locks.
package publisher
