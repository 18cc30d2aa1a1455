package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"vidindex/internal/index"
)

// MustOpenStore opens an index.Store backed by a temp file and registers
// cleanup.
func MustOpenStore(t testing.TB) *index.Store {
	t.Helper()

	store, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewVideo inserts a video row for tests using the provided store.
func NewVideo(t testing.TB, store *index.Store, id, filename string) index.Video {
	t.Helper()

	video := index.Video{
		ID:        id,
		Filename:  filename,
		Duration:  10,
		FPS:       25,
		Width:     1280,
		Height:    720,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.UpsertVideo(context.Background(), video); err != nil {
		t.Fatalf("store.UpsertVideo: %v", err)
	}
	return video
}
