package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vidindex/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace_OK(t *testing.T) {
	result := CheckFreeSpace(t.TempDir(), 1)
	if !result.Passed {
		t.Fatalf("expected pass for tiny free-space floor, got: %s", result.Detail)
	}
}

func TestCheckFreeSpace_MissingPath(t *testing.T) {
	result := CheckFreeSpace(filepath.Join(t.TempDir(), "nope"), 1)
	if result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StorageRoot = t.TempDir()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.MinFreeBytes = 0

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_MinFreeBytesAddsCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StorageRoot = t.TempDir()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.MinFreeBytes = 1

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results with free-space floor set, got %d", len(results))
	}
}

func TestRunAll_OpenAIWithoutKey(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StorageRoot = t.TempDir()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.MinFreeBytes = 0
	cfg.Transcription.Engine = config.EngineOpenAI
	cfg.Transcription.OpenAIAPIKey = ""

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "OpenAI transcription" {
			found = true
			if r.Passed {
				t.Error("expected OpenAI check to fail without an API key")
			}
		}
	}
	if !found {
		t.Fatal("expected OpenAI transcription check in results")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "clearly-not-present-ffmpeg"

	statuses := CheckSystemDeps(context.Background(), &cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if status.Name == "FFmpeg" && status.Available {
			t.Fatal("expected stubbed ffmpeg binary to be unavailable")
		}
	}
}
