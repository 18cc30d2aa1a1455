// Package pipeline orchestrates the ingestion and enrichment stages over a
// single storage root: transcode on upload, transcription, scene detection,
// and the read-side queries built on the index they populate.
//
// A Pipeline owns the storage layout, the SQLite index, and the external
// tool clients. Opening one acquires an exclusive lock file under the
// storage root so two processes never mutate the same library concurrently.
// Within a process, operations on the same video id are serialized; work on
// distinct videos may proceed in parallel.
package pipeline
