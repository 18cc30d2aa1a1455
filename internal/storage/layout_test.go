package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"vidindex/internal/storage"
)

func TestNewCreatesSubareas(t *testing.T) {
	root := filepath.Join(t.TempDir(), "media")
	layout, err := storage.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, dir := range []string{
		layout.VideosDir(),
		layout.FramesDir(),
		layout.TranscriptsDir(),
		layout.ScenesDir(),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestNewIsIdempotent(t *testing.T) {
	root := t.TempDir()
	if _, err := storage.New(root); err != nil {
		t.Fatalf("first New: %v", err)
	}
	// Existing content must survive re-initialization.
	marker := filepath.Join(root, "videos", "keep.mp4")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if _, err := storage.New(root); err != nil {
		t.Fatalf("second New: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("marker removed by re-init: %v", err)
	}
}

func TestNewRejectsEmptyRoot(t *testing.T) {
	if _, err := storage.New(""); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestPathBuilders(t *testing.T) {
	root := t.TempDir()
	layout, err := storage.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := layout.VideoPath("clip_1"), filepath.Join(root, "videos", "clip_1.mp4"); got != want {
		t.Errorf("VideoPath = %q, want %q", got, want)
	}
	if got, want := layout.KeyframePath("clip_1", 4), filepath.Join(root, "frames", "clip_1_scene_4.jpg"); got != want {
		t.Errorf("KeyframePath = %q, want %q", got, want)
	}
	if got, want := layout.TranscriptPath("clip_1"), filepath.Join(root, "transcripts", "clip_1.json"); got != want {
		t.Errorf("TranscriptPath = %q, want %q", got, want)
	}
	if got, want := layout.IndexPath(), filepath.Join(root, "index.db"); got != want {
		t.Errorf("IndexPath = %q, want %q", got, want)
	}
}
