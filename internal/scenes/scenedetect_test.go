package scenes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSceneCSV(t *testing.T) {
	input := `Scene Number,Start Frame,Start Timecode,Start Time (seconds),End Frame,End Timecode,End Time (seconds),Length (frames),Length (timecode),Length (seconds)
1,1,00:00:00.000,0.000,120,00:00:05.000,5.000,120,00:00:05.000,5.000
2,121,00:00:05.000,5.000,240,00:00:10.000,10.000,120,00:00:05.000,5.000
`
	boundaries, err := ParseSceneCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSceneCSV failed: %v", err)
	}
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(boundaries))
	}
	if boundaries[0].Start != 0 || boundaries[0].End != 5 {
		t.Errorf("first boundary = %+v, want 0-5", boundaries[0])
	}
	if boundaries[1].Start != 5 || boundaries[1].End != 10 {
		t.Errorf("second boundary = %+v, want 5-10", boundaries[1])
	}
}

func TestParseSceneCSVHeaderOnly(t *testing.T) {
	input := "Scene Number,Start Time (seconds),End Time (seconds)\n"
	boundaries, err := ParseSceneCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSceneCSV failed: %v", err)
	}
	if len(boundaries) != 0 {
		t.Fatalf("expected no boundaries, got %d", len(boundaries))
	}
}

func TestParseSceneCSVMissingColumns(t *testing.T) {
	input := "Scene Number,Start Frame\n1,1\n"
	if _, err := ParseSceneCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing time columns")
	}
}

func TestParseSceneCSVBadValue(t *testing.T) {
	input := "Start Time (seconds),End Time (seconds)\nnope,5.0\n"
	if _, err := ParseSceneCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for unparseable start time")
	}
}

func TestDetectScenesBuildsCommand(t *testing.T) {
	outputDir := t.TempDir()

	var gotName string
	var gotArgs []string
	detector := NewSceneDetectCLI(outputDir, WithRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		csv := "Start Time (seconds),End Time (seconds)\n0.000,3.500\n3.500,9.250\n"
		return os.WriteFile(filepath.Join(outputDir, "clip-scenes.csv"), []byte(csv), 0o644)
	}))

	boundaries, err := detector.DetectScenes(context.Background(), "/media/clip.mp4", 27.0)
	if err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	if gotName != "uvx" {
		t.Errorf("command = %q, want uvx", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"scenedetect",
		"--input /media/clip.mp4",
		"detect-content",
		"--threshold 27.0",
		"list-scenes",
		"--filename clip-scenes.csv",
		"--skip-cuts",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(boundaries))
	}
	if boundaries[1].Start != 3.5 || boundaries[1].End != 9.25 {
		t.Errorf("second boundary = %+v, want 3.5-9.25", boundaries[1])
	}
}

func TestDetectScenesDefaultThreshold(t *testing.T) {
	outputDir := t.TempDir()

	var gotArgs []string
	detector := NewSceneDetectCLI(outputDir, WithRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		csv := "Start Time (seconds),End Time (seconds)\n"
		return os.WriteFile(filepath.Join(outputDir, "clip-scenes.csv"), []byte(csv), 0o644)
	}))

	boundaries, err := detector.DetectScenes(context.Background(), "/media/clip.mp4", 0)
	if err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "--threshold 27.0") {
		t.Errorf("args %v missing default threshold", gotArgs)
	}
	if len(boundaries) != 0 {
		t.Fatalf("expected empty result, got %d boundaries", len(boundaries))
	}
}

func TestDetectScenesEmptyPath(t *testing.T) {
	detector := NewSceneDetectCLI(t.TempDir())
	if _, err := detector.DetectScenes(context.Background(), "  ", 27.0); err == nil {
		t.Fatal("expected error for empty video path")
	}
}
