package index

import "time"

// Video is one ingested media item. The id is the stable key shared by all
// derived tables and artifact files.
type Video struct {
	ID        string
	Filename  string
	Duration  float64
	FPS       float64
	Width     int
	Height    int
	CreatedAt time.Time
}

// Segment is one time-bounded unit of transcribed speech. Confidence is an
// opaque engine-reported score (Whisper reports avg_logprob, which is
// negative); it is a ranking signal, not a probability.
type Segment struct {
	Start      float64
	End        float64
	Text       string
	Confidence float64
}

// Scene is one time-bounded unit of visually coherent content with a
// representative keyframe. Number is dense and zero-based per video.
type Scene struct {
	Number    int
	Start     float64
	End       float64
	FramePath string
}
