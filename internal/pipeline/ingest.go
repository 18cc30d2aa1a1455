package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vidindex/internal/fileutil"
	"vidindex/internal/index"
	"vidindex/internal/logging"
	"vidindex/internal/services"
)

// Ingest transcodes the source into the library, probes the result, and
// records the video in the index. An empty videoID derives one from the
// source name plus the ingest time; a caller-supplied id must stay within
// [A-Za-z0-9_-], and re-ingesting under an existing id replaces its derived
// state. The
// returned video carries the id callers use for every later operation.
func (p *Pipeline) Ingest(ctx context.Context, sourcePath, videoID string) (index.Video, error) {
	const stage = "ingest"

	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return index.Video{}, services.Wrap(services.ErrInvalidArgument, stage, "validate", "video path required", nil)
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return index.Video{}, services.Wrap(services.ErrNotFound, stage, "validate",
				fmt.Sprintf("source %s does not exist", sourcePath), nil)
		}
		return index.Video{}, services.Wrap(services.ErrInvalidArgument, stage, "validate", "stat source", err)
	}
	if info.IsDir() {
		return index.Video{}, services.Wrap(services.ErrInvalidArgument, stage, "validate",
			fmt.Sprintf("source %s is a directory", sourcePath), nil)
	}

	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		videoID = deriveVideoID(sourcePath)
	} else if !validVideoID(videoID) {
		return index.Video{}, services.Wrap(services.ErrInvalidArgument, stage, "validate",
			fmt.Sprintf("video id %q contains characters outside [A-Za-z0-9_-]", videoID), nil)
	}
	unlock := p.locks.Lock(videoID)
	defer unlock()

	ctx = services.WithVideoID(services.WithStage(ctx, stage), videoID)
	logger := p.logger.With(logging.Args(logging.ContextFields(ctx)...)...)
	logger.Info("ingesting video", logging.String("source", sourcePath))

	// Transcode into scratch and move into the library only once the copy
	// probes clean, so a failed re-ingest cannot destroy a prior good file.
	scratchPath := filepath.Join(p.cfg.Paths.ScratchDir, videoID+".ingest.mp4")
	defer func() {
		_ = fileutil.RemoveIfExists(scratchPath)
	}()
	if err := p.ffmpeg.Transcode(ctx, sourcePath, scratchPath); err != nil {
		return index.Video{}, services.Wrap(services.ErrTranscodeFailed, stage, "transcode",
			fmt.Sprintf("transcode %s", sourcePath), err)
	}

	meta, err := p.probe(ctx, scratchPath)
	if err != nil {
		return index.Video{}, services.Wrap(services.ErrTranscodeFailed, stage, "probe",
			"inspect transcoded output", err)
	}

	if err := p.clearDerived(ctx, videoID); err != nil {
		return index.Video{}, err
	}

	destPath := p.layout.VideoPath(videoID)
	if err := fileutil.MoveFile(scratchPath, destPath); err != nil {
		return index.Video{}, services.Wrap(services.ErrStoreIO, stage, "commit",
			"move normalized file into library", err)
	}

	video := index.Video{
		ID:        videoID,
		Filename:  filepath.Base(sourcePath),
		Duration:  meta.Duration,
		FPS:       meta.FPS,
		Width:     meta.Width,
		Height:    meta.Height,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.UpsertVideo(ctx, video); err != nil {
		return index.Video{}, mapStoreErr(stage, "record", err)
	}

	logger.Info("video ingested",
		logging.Float64("duration_seconds", meta.Duration),
		logging.Float64("fps", meta.FPS),
		logging.Int("width", meta.Width),
		logging.Int("height", meta.Height))
	return video, nil
}

// clearDerived drops transcript and scene state left by a previous ingest of
// the same id. The cascade on the videos row covers the index; artifact
// files are removed here.
func (p *Pipeline) clearDerived(ctx context.Context, videoID string) error {
	if err := p.store.DeleteVideo(ctx, videoID); err != nil && !errors.Is(err, index.ErrNotFound) {
		return mapStoreErr("ingest", "clear", err)
	}
	_ = fileutil.RemoveIfExists(p.layout.TranscriptPath(videoID))
	p.removeKeyframesFrom(videoID, 0)
	return nil
}

// removeKeyframesFrom deletes keyframe files for videoID with scene numbers
// at or above from. The numeric part must be exactly the rest of the name:
// a sibling id like "<videoID>_scene_1" owns its own keyframes.
func (p *Pipeline) removeKeyframesFrom(videoID string, from int) {
	pattern := filepath.Join(p.layout.FramesDir(), videoID+"_scene_*.jpg")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	prefix := videoID + "_scene_"
	for _, match := range matches {
		base := filepath.Base(match)
		numPart := strings.TrimSuffix(strings.TrimPrefix(base, prefix), ".jpg")
		n, err := strconv.Atoi(numPart)
		if err != nil || strconv.Itoa(n) != numPart {
			continue
		}
		if n >= from {
			_ = fileutil.RemoveIfExists(match)
		}
	}
}

// validVideoID reports whether a caller-supplied id sticks to the same
// charset deriveVideoID emits. Anything else could escape the library
// directories once joined into a path.
func validVideoID(id string) bool {
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// deriveVideoID builds a filesystem- and id-safe key from the source file
// name plus the ingest time, so repeated uploads of the same file stay
// distinct.
func deriveVideoID(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
	if stem == "" {
		stem = "video"
	}
	return fmt.Sprintf("%s_%d", stem, time.Now().Unix())
}
