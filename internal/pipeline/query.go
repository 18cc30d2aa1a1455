package pipeline

import (
	"context"
	"errors"
	"os"

	"vidindex/internal/index"
	"vidindex/internal/services"
)

// Status describes how far a video has progressed through the stages.
type Status string

const (
	// StatusUnknown means the id has no index row.
	StatusUnknown Status = "unknown"
	// StatusIngested means the video is stored and probed, nothing more.
	StatusIngested Status = "ingested"
	// StatusTranscribed means a transcript exists but no scenes.
	StatusTranscribed Status = "transcribed"
	// StatusSceneSegmented means scenes exist but no transcript.
	StatusSceneSegmented Status = "scene_segmented"
	// StatusComplete means both transcript and scenes exist.
	StatusComplete Status = "complete"
)

// Info aggregates everything known about one video.
type Info struct {
	Video             index.Video
	Status            Status
	SegmentCount      int
	SceneCount        int
	VideoPath         string
	HasTranscriptFile bool
}

// GetInfo returns the video row plus derived-state counts and the overall
// processing status.
func (p *Pipeline) GetInfo(ctx context.Context, videoID string) (Info, error) {
	const stage = "query"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return Info{}, err
	}

	video, err := p.store.GetVideo(ctx, videoID)
	if err != nil {
		return Info{}, mapStoreErr(stage, "get-info", err)
	}
	segments, err := p.store.ListSegments(ctx, videoID)
	if err != nil {
		return Info{}, mapStoreErr(stage, "get-info", err)
	}
	sceneRows, err := p.store.ListScenes(ctx, videoID)
	if err != nil {
		return Info{}, mapStoreErr(stage, "get-info", err)
	}

	info := Info{
		Video:        video,
		SegmentCount: len(segments),
		SceneCount:   len(sceneRows),
		VideoPath:    p.layout.VideoPath(videoID),
	}
	if _, err := os.Stat(p.layout.TranscriptPath(videoID)); err == nil {
		info.HasTranscriptFile = true
	}
	info.Status = statusFor(info.SegmentCount, info.SceneCount)
	return info, nil
}

func statusFor(segmentCount, sceneCount int) Status {
	switch {
	case segmentCount > 0 && sceneCount > 0:
		return StatusComplete
	case segmentCount > 0:
		return StatusTranscribed
	case sceneCount > 0:
		return StatusSceneSegmented
	default:
		return StatusIngested
	}
}

// Status reports where the video sits in the processing state machine.
// Unknown ids report StatusUnknown rather than an error.
func (p *Pipeline) Status(ctx context.Context, videoID string) (Status, error) {
	info, err := p.GetInfo(ctx, videoID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return StatusUnknown, nil
		}
		return StatusUnknown, err
	}
	return info.Status, nil
}

// SearchTranscript returns the video's transcript segments whose text
// contains the query, compared case-insensitively.
func (p *Pipeline) SearchTranscript(ctx context.Context, videoID, query string) ([]index.Segment, error) {
	const stage = "query"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return nil, err
	}
	segments, err := p.store.SearchTranscript(ctx, videoID, query)
	if err != nil {
		return nil, mapStoreErr(stage, "search", err)
	}
	return segments, nil
}

// ListScenes returns the video's scenes in scene-number order.
func (p *Pipeline) ListScenes(ctx context.Context, videoID string) ([]index.Scene, error) {
	const stage = "query"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return nil, err
	}
	sceneRows, err := p.store.ListScenes(ctx, videoID)
	if err != nil {
		return nil, mapStoreErr(stage, "list-scenes", err)
	}
	return sceneRows, nil
}

// ListSegments returns the video's transcript in start-time order.
func (p *Pipeline) ListSegments(ctx context.Context, videoID string) ([]index.Segment, error) {
	const stage = "query"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return nil, err
	}
	segments, err := p.store.ListSegments(ctx, videoID)
	if err != nil {
		return nil, mapStoreErr(stage, "list-segments", err)
	}
	return segments, nil
}

// ListVideos returns every indexed video in creation order.
func (p *Pipeline) ListVideos(ctx context.Context) ([]index.Video, error) {
	videos, err := p.store.ListVideos(ctx)
	if err != nil {
		return nil, mapStoreErr("query", "list-videos", err)
	}
	return videos, nil
}
