package domain

// domain package contains the Domain Models and Interfaces for the census application.
//
// `domain/census` package exposes the Manager, the root object of the domain.
// Entrypoints of applications should instantiate a Manager and use it to read,
// refresh and invalidate datasets.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/snapshot.go` contains the `Snapshot` entity.
//
// # Entities
//
// Core entities in the domain are:
//
// - `snapshot`: A dataset value at a point in time, together with its provenance
// (where it came from, when it was fetched, when it goes stale). Snapshots are
// held in the in-memory cache and, optionally, in the snapshot store.
//
// - `source`: A producer of one dataset. Sources fetch from upstream endpoints
// (registry delegation files, CDN reports, BGP collectors, federal trackers),
// or hold curated catalogs. Every source carries a fallback value, so a dataset
// read never fails just because its upstream is down.
//
// - `stats`: The typed payloads sources produce. Each payload kind knows how to
// render itself into the normalized tabular form used for export.
