// Package storage manages the on-disk layout for ingested media.
//
// A Layout roots four fixed subareas (videos, frames, transcripts, scenes)
// and builds deterministic artifact paths from video ids. The SQLite index
// lives alongside them at the root. Derived files are only meaningful while
// their owning row exists in the index; the layout itself never deletes.
package storage
