// Package pack holds the pure data model shared by the resolver, the API
// clients, and the publisher: releases from the version catalog, the remote
// registry snapshot, format groups, and the resolution report.
//
// Types here carry no behavior beyond trivial constructors and lookups;
// all decision logic lives in internal/service/resolver.
package pack
