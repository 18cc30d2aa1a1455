package transcribe

import (
	"context"
	"strings"
)

// Segment is one time-aligned unit of recognized speech.
type Segment struct {
	Start      float64
	End        float64
	Text       string
	Confidence float64
}

// Result carries the parsed segments plus the engine's full raw JSON output,
// which the pipeline archives for audit and debugging.
type Result struct {
	Segments []Segment
	Raw      []byte
}

// Engine is the speech-recognition boundary. Implementations block for the
// duration of the transcription and honor context cancellation by killing
// the underlying process or request.
type Engine interface {
	// Name identifies the engine in logs and errors.
	Name() string
	// Available reports whether the engine can run at all. A non-nil error
	// means callers should fail with EngineUnavailable without retrying.
	Available(ctx context.Context) error
	// Transcribe recognizes speech in the WAV file at audioPath. language
	// is a hint ("en", "zh", ...); empty lets the engine auto-detect.
	Transcribe(ctx context.Context, audioPath, language string) (Result, error)
}

// cleanSegments trims text and drops segments the engine emitted empty.
func cleanSegments(segments []Segment) []Segment {
	cleaned := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		cleaned = append(cleaned, seg)
	}
	return cleaned
}
