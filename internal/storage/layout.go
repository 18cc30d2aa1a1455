package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Subdirectory names under the storage root.
const (
	videosDir      = "videos"
	framesDir      = "frames"
	transcriptsDir = "transcripts"
	scenesDir      = "scenes"

	indexFileName = "index.db"
	lockFileName  = "vidindex.lock"
)

// Layout owns the on-disk storage areas for normalized videos, keyframes,
// transcript artifacts, and scene artifacts. It only ever creates
// directories; nothing here deletes.
type Layout struct {
	root string
}

// New ensures the storage root and its four subareas exist and returns the
// layout. Creation is idempotent.
func New(root string) (*Layout, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: root path required")
	}
	layout := &Layout{root: root}
	for _, dir := range []string{
		root,
		layout.VideosDir(),
		layout.FramesDir(),
		layout.TranscriptsDir(),
		layout.ScenesDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory %q: %w", dir, err)
		}
	}
	return layout, nil
}

// Root returns the storage root directory.
func (l *Layout) Root() string { return l.root }

// VideosDir returns the directory holding normalized video copies.
func (l *Layout) VideosDir() string { return filepath.Join(l.root, videosDir) }

// FramesDir returns the directory holding extracted keyframes.
func (l *Layout) FramesDir() string { return filepath.Join(l.root, framesDir) }

// TranscriptsDir returns the directory holding raw transcription results.
func (l *Layout) TranscriptsDir() string { return filepath.Join(l.root, transcriptsDir) }

// ScenesDir returns the directory holding scene detector artifacts.
func (l *Layout) ScenesDir() string { return filepath.Join(l.root, scenesDir) }

// IndexPath returns the SQLite index file path.
func (l *Layout) IndexPath() string { return filepath.Join(l.root, indexFileName) }

// LockPath returns the path of the storage-root process lock.
func (l *Layout) LockPath() string { return filepath.Join(l.root, lockFileName) }

// VideoPath returns the normalized video path for a video id.
func (l *Layout) VideoPath(videoID string) string {
	return filepath.Join(l.VideosDir(), videoID+".mp4")
}

// KeyframePath returns the keyframe image path for a video id and zero-based
// scene index. Names are deterministic so re-running detection overwrites
// rather than accumulates.
func (l *Layout) KeyframePath(videoID string, sceneNumber int) string {
	return filepath.Join(l.FramesDir(), fmt.Sprintf("%s_scene_%d.jpg", videoID, sceneNumber))
}

// TranscriptPath returns the raw transcription artifact path for a video id.
func (l *Layout) TranscriptPath(videoID string) string {
	return filepath.Join(l.TranscriptsDir(), videoID+".json")
}
