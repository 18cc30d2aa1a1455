// Package index persists video metadata, transcript segments, and scenes in
// SQLite and is the single source of truth for which videos exist.
//
// The Store manages the database connection, schema initialization with a
// version check, busy retries, and the replace semantics the pipeline depends
// on: a video's full segment or scene set is substituted inside one
// transaction, so readers never observe a mixture of old and new rows.
// Reads are always ordered by start time.
package index
