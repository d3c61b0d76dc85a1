// Package modrinth is a minimal client for the parts of the Modrinth REST
// API this tool touches: project lookup, version listing, and version upload.
//
// Lookup distinguishes "project does not exist yet" (an expected state
// before the first upload) from every other failure, which is surfaced as an
// error. All requests share a rate limiter to stay inside the registry's
// published rate limits.
package modrinth
