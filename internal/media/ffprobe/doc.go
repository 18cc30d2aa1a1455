// Package ffprobe wraps the ffprobe binary for media inspection.
//
// Inspect shells out with JSON output and decodes the container format and
// stream list. Probe derives the normalized video metadata the pipeline
// stores: frame rate, frame count, resolution, and a duration computed as
// frames over rate so degenerate inputs report zero rather than failing.
package ffprobe
