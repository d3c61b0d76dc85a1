// Package mcmeta reads the authoritative Minecraft release catalog.
//
// The catalog is a JSON array of version objects; only entries of type
// "release" that report a resource pack format are kept. A failed or
// malformed fetch surfaces as ErrCatalogUnavailable and is fatal for the
// whole run.
package mcmeta
