// Package sqlite provides a VectorStore backed by a local SQLite database.
//
// Vectors are stored as little-endian float32 blobs keyed by namespace and
// record ID. Queries scan the namespace and rank by cosine similarity, which
// suits the single-document namespaces the pipeline creates.
//
// The pure-Go modernc.org/sqlite driver is used, so no cgo is required.
// Schema changes are applied from embedded migrations on open.
package sqlite
