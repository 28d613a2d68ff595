// Package appstream is tooling for software catalog metadata.
//
// # Overview
//
// appstream parses component metadata from per-application metainfo
// files and distribution catalogs (XML and DEP-11 YAML, optionally
// gzip-compressed), merges everything into one deduplicated component
// pool, and makes the pool queryable by id, provided item, category and
// ranked full-text search.
//
// The main pieces:
//   - models: the component data model with locale-aware text fields
//   - internal/metadata: parsing and serialization of all three formats
//   - internal/pool: source merging, caching and query snapshots
//   - internal/search: tokenization, stemming and text indexes
//   - internal/api: the Echo-based HTTP API
//   - cmd/appstream: the command line interface
//
// The pool persists its merged state in a SQLite cache together with a
// fingerprint of all source locations; unchanged sources make refreshes
// nearly free.
package appstream
