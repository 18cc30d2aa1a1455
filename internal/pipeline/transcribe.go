package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vidindex/internal/fileutil"
	"vidindex/internal/index"
	"vidindex/internal/logging"
	"vidindex/internal/services"
)

// Transcribe extracts the video's audio track, runs the configured speech
// engine over it, archives the engine's raw output, and replaces the
// transcript rows in the index. It returns the number of stored segments.
// Running it again fully replaces the previous transcript.
func (p *Pipeline) Transcribe(ctx context.Context, videoID string) (int, error) {
	const stage = "transcribe"

	videoID, err := requireVideoID(stage, videoID)
	if err != nil {
		return 0, err
	}
	unlock := p.locks.Lock(videoID)
	defer unlock()

	if _, err := p.store.GetVideo(ctx, videoID); err != nil {
		return 0, mapStoreErr(stage, "lookup", err)
	}
	videoPath := p.layout.VideoPath(videoID)
	if _, err := os.Stat(videoPath); err != nil {
		return 0, services.Wrap(services.ErrNotFound, stage, "lookup",
			fmt.Sprintf("stored video file missing for %s", videoID), err)
	}

	if err := p.engine.Available(ctx); err != nil {
		return 0, services.Wrap(services.ErrEngineUnavailable, stage, "engine",
			fmt.Sprintf("engine %s unavailable", p.engine.Name()), err)
	}

	ctx = services.WithVideoID(services.WithStage(ctx, stage), videoID)
	logger := p.logger.With(logging.Args(logging.ContextFields(ctx)...)...)
	logger.Info("transcribing video", logging.String("engine", p.engine.Name()))

	audioPath := filepath.Join(p.cfg.Paths.ScratchDir, uuid.NewString()+".wav")
	defer func() {
		_ = fileutil.RemoveIfExists(audioPath)
	}()

	if err := p.ffmpeg.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return 0, services.Wrap(services.ErrExtractionFailed, stage, "extract-audio",
			"extract mono 16 kHz wav", err)
	}

	result, err := p.engine.Transcribe(ctx, audioPath, p.cfg.Transcription.Language)
	if err != nil {
		return 0, services.Wrap(services.ErrEngineUnavailable, stage, "recognize",
			fmt.Sprintf("engine %s failed", p.engine.Name()), err)
	}

	if len(result.Raw) > 0 {
		if err := fileutil.WriteFileAtomic(p.layout.TranscriptPath(videoID), result.Raw, 0o644); err != nil {
			return 0, services.Wrap(services.ErrStoreIO, stage, "archive",
				"write raw transcript artifact", err)
		}
	}

	segments := make([]index.Segment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, index.Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	if err := p.store.ReplaceTranscript(ctx, videoID, segments); err != nil {
		return 0, mapStoreErr(stage, "record", err)
	}

	logger.Info("transcript stored", logging.Int("segments", len(segments)))
	return len(segments), nil
}

func requireVideoID(stage, videoID string) (string, error) {
	trimmed := strings.TrimSpace(videoID)
	if trimmed == "" {
		return "", services.Wrap(services.ErrInvalidArgument, stage, "validate", "video id required", nil)
	}
	return trimmed, nil
}
