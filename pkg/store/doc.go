// Package store persists compiled page style sheets.
//
// A Store maps a page id to the opaque blob produced by stylesheet.Encode.
// Backends:
//
//   - Memory keeps blobs in process, for tests and single-node setups.
//   - Postgres uses the page_styles table created by pg.Migrate.
//   - Redis keeps one key per page and reads many pages with MGET.
//   - Mongo keeps one document per page with the page id as _id.
//   - S3 keeps one gzip object per page.
//
// Cached wraps any of them with a bounded LRU read-through cache.
//
// Every backend validates input the same way: ids must be positive and blobs
// non-empty. Get reports ErrNotFound for unknown pages, GetMany simply omits
// them and Delete of an unknown page succeeds. Driver failures are wrapped
// in ErrBackend.
package store
