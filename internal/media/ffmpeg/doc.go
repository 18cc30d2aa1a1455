// Package ffmpeg wraps the ffmpeg binary for the three operations the
// pipeline needs: normalizing an arbitrary input into the canonical
// H.264/AAC MP4 container, extracting a mono 16 kHz PCM audio track for
// speech recognition, and extracting a single frame as a keyframe image.
package ffmpeg
