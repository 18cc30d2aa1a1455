package scenes

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	uvxCommand         = "uvx"
	scenedetectCommand = "scenedetect"
)

// SceneDetectCLI runs PySceneDetect's content detector through uv's tool
// runner and parses the CSV scene list it writes.
type SceneDetectCLI struct {
	uvxBinary string
	outputDir string
	runner    func(ctx context.Context, name string, args ...string) error
}

// SceneDetectOption configures the CLI detector.
type SceneDetectOption func(*SceneDetectCLI)

// WithUVXBinary overrides the uvx binary name or path.
func WithUVXBinary(binary string) SceneDetectOption {
	return func(d *SceneDetectCLI) {
		if binary != "" {
			d.uvxBinary = binary
		}
	}
}

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner func(ctx context.Context, name string, args ...string) error) SceneDetectOption {
	return func(d *SceneDetectCLI) {
		d.runner = runner
	}
}

// NewSceneDetectCLI constructs the detector. outputDir receives the CSV
// artifacts, one per video, named after the video file.
func NewSceneDetectCLI(outputDir string, opts ...SceneDetectOption) *SceneDetectCLI {
	detector := &SceneDetectCLI{uvxBinary: uvxCommand, outputDir: outputDir}
	for _, opt := range opts {
		opt(detector)
	}
	return detector
}

// Name identifies the detector.
func (d *SceneDetectCLI) Name() string { return "scenedetect-cli" }

// Available reports whether the uvx runner is on PATH.
func (d *SceneDetectCLI) Available(ctx context.Context) error {
	if _, err := exec.LookPath(d.uvxBinary); err != nil {
		return fmt.Errorf("uvx binary %q not found: %w", d.uvxBinary, err)
	}
	return nil
}

// DetectScenes runs detection and returns ordered boundaries in seconds.
func (d *SceneDetectCLI) DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]Boundary, error) {
	if strings.TrimSpace(videoPath) == "" {
		return nil, fmt.Errorf("scenedetect: video path required")
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("scenedetect: ensure output dir: %w", err)
	}

	csvName := csvFileName(videoPath)
	args := []string{
		scenedetectCommand,
		"--input", videoPath,
		"--output", d.outputDir,
		"detect-content",
		"--threshold", strconv.FormatFloat(threshold, 'f', 1, 64),
		"list-scenes",
		"--filename", csvName,
		"--skip-cuts",
		"--quiet",
	}
	if err := d.run(ctx, d.uvxBinary, args...); err != nil {
		return nil, fmt.Errorf("scenedetect: %w", err)
	}

	csvPath := filepath.Join(d.outputDir, csvName)
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("scenedetect: read scene list: %w", err)
	}
	defer file.Close()

	boundaries, err := ParseSceneCSV(file)
	if err != nil {
		return nil, fmt.Errorf("scenedetect: %w", err)
	}
	return boundaries, nil
}

func (d *SceneDetectCLI) run(ctx context.Context, name string, args ...string) error {
	if d.runner != nil {
		return d.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func csvFileName(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "-scenes.csv"
}

// ParseSceneCSV decodes PySceneDetect's list-scenes CSV written with
// --skip-cuts: a header row naming the columns followed by one row per
// scene. Only the start/end second columns are read.
func ParseSceneCSV(r io.Reader) ([]Boundary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse scene csv: %w", err)
	}
	if len(records) == 0 {
		return []Boundary{}, nil
	}

	header := records[0]
	startCol, endCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Start Time (seconds)":
			startCol = i
		case "End Time (seconds)":
			endCol = i
		}
	}
	if startCol == -1 || endCol == -1 {
		return nil, fmt.Errorf("parse scene csv: missing time columns in header %v", header)
	}

	boundaries := make([]Boundary, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) <= startCol || len(record) <= endCol {
			continue
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(record[startCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse scene csv: bad start time %q", record[startCol])
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(record[endCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse scene csv: bad end time %q", record[endCol])
		}
		boundaries = append(boundaries, Boundary{Start: start, End: end})
	}
	return boundaries, nil
}

var _ Detector = (*SceneDetectCLI)(nil)
