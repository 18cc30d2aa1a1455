package pipeline

import (
	"context"
	"fmt"
	"os"

	"vidindex/internal/index"
	"vidindex/internal/logging"
	"vidindex/internal/services"
)

// DetectScenes runs shot-boundary detection over the stored video, captures
// one keyframe per scene, and replaces the scene rows in the index. A
// threshold <= 0 selects the configured default. An empty boundary list is a
// valid outcome that clears previous scenes. Keyframes are written before
// the index commit; any extraction failure aborts with the old rows intact.
func (p *Pipeline) DetectScenes(ctx context.Context, videoID string, threshold float64) ([]index.Scene, error) {
	const stage = "scenes"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return nil, err
	}
	unlock := p.locks.Lock(videoID)
	defer unlock()

	if _, err := p.store.GetVideo(ctx, videoID); err != nil {
		return nil, mapStoreErr(stage, "lookup", err)
	}
	videoPath := p.layout.VideoPath(videoID)
	if _, err := os.Stat(videoPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, stage, "lookup",
			fmt.Sprintf("stored video file missing for %s", videoID), err)
	}

	if err := p.detector.Available(ctx); err != nil {
		return nil, services.Wrap(services.ErrEngineUnavailable, stage, "detector",
			fmt.Sprintf("detector %s unavailable", p.detector.Name()), err)
	}

	if threshold <= 0 {
		threshold = p.cfg.SceneDetection.Threshold
	}

	ctx = services.WithVideoID(services.WithStage(ctx, stage), videoID)
	logger := p.logger.With(logging.Args(logging.ContextFields(ctx)...)...)
	logger.Info("detecting scenes",
		logging.String("detector", p.detector.Name()),
		logging.Float64("threshold", threshold))

	boundaries, err := p.detector.DetectScenes(ctx, videoPath, threshold)
	if err != nil {
		return nil, services.Wrap(services.ErrSceneDetectFailed, stage, "detect",
			fmt.Sprintf("detector %s", p.detector.Name()), err)
	}

	records := make([]index.Scene, 0, len(boundaries))
	for i, boundary := range boundaries {
		framePath := p.layout.KeyframePath(videoID, i)
		if err := p.ffmpeg.ExtractFrame(ctx, videoPath, boundary.Start, framePath); err != nil {
			return nil, services.Wrap(services.ErrExtractionFailed, stage, "keyframe",
				fmt.Sprintf("extract keyframe for scene %d at %.3fs", i, boundary.Start), err)
		}
		records = append(records, index.Scene{
			Number:    i,
			Start:     boundary.Start,
			End:       boundary.End,
			FramePath: framePath,
		})
	}

	if err := p.store.ReplaceScenes(ctx, videoID, records); err != nil {
		return nil, mapStoreErr(stage, "record", err)
	}
	p.removeKeyframesFrom(videoID, len(records))

	logger.Info("scenes stored", logging.Int("scenes", len(records)))
	return records, nil
}
