package action

import (
	"strings"
	"time"

	"vidindex/internal/index"
	"vidindex/internal/pipeline"
)

// VideoPayload mirrors an index video row for serialization.
type VideoPayload struct {
	VideoID   string  `json:"video_id"`
	Filename  string  `json:"filename"`
	Duration  float64 `json:"duration"`
	FPS       float64 `json:"fps"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	CreatedAt string  `json:"created_at"`
}

// SegmentPayload mirrors one transcript segment.
type SegmentPayload struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ScenePayload mirrors one detected scene.
type ScenePayload struct {
	SceneNumber int     `json:"scene_number"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	FramePath   string  `json:"frame_path"`
}

// InfoPayload aggregates a video row with its processing state.
type InfoPayload struct {
	Video        VideoPayload `json:"video"`
	Status       string       `json:"status"`
	SegmentCount int          `json:"segment_count"`
	SceneCount   int          `json:"scene_count"`
	VideoPath    string       `json:"video_path"`
}

func videoPayload(v index.Video) VideoPayload {
	return VideoPayload{
		VideoID:   v.ID,
		Filename:  v.Filename,
		Duration:  v.Duration,
		FPS:       v.FPS,
		Width:     v.Width,
		Height:    v.Height,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
}

func segmentPayloads(segments []index.Segment) []SegmentPayload {
	out := make([]SegmentPayload, 0, len(segments))
	for _, seg := range segments {
		out = append(out, SegmentPayload{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	return out
}

func scenePayloads(scenes []index.Scene) []ScenePayload {
	out := make([]ScenePayload, 0, len(scenes))
	for _, scene := range scenes {
		out = append(out, ScenePayload{
			SceneNumber: scene.Number,
			Start:       scene.Start,
			End:         scene.End,
			FramePath:   scene.FramePath,
		})
	}
	return out
}

func infoPayload(info pipeline.Info) InfoPayload {
	return InfoPayload{
		Video:        videoPayload(info.Video),
		Status:       string(info.Status),
		SegmentCount: info.SegmentCount,
		SceneCount:   info.SceneCount,
		VideoPath:    info.VideoPath,
	}
}

func joinedText(segments []index.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
