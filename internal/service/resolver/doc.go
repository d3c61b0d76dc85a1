// Package resolver implements the core reconciliation algorithm: it
// partitions Minecraft releases by resource pack format, compares each group
// against the registry snapshot, and decides which (pack version, format)
// artifacts are stale.
//
// GroupByFormat and BuildResolution are pure functions over fetched data;
// Run wires them to the catalog and registry clients and writes the JSON
// report. Presentation stays out of the core: the functions return
// structured results and errors only.
package resolver
