package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command names for the local engine.
const (
	uvxCommand     = "uvx"
	whisperPackage = "openai-whisper"
	whisperCommand = "whisper"
)

// WhisperCLI runs the reference Whisper implementation through uv's tool
// runner, so no Python environment management happens on this side.
type WhisperCLI struct {
	uvxBinary string
	model     string
	runner    func(ctx context.Context, name string, args ...string) error
}

// WhisperOption configures the CLI engine.
type WhisperOption func(*WhisperCLI)

// WithUVXBinary overrides the uvx binary name or path.
func WithUVXBinary(binary string) WhisperOption {
	return func(w *WhisperCLI) {
		if binary != "" {
			w.uvxBinary = binary
		}
	}
}

// WithWhisperRunner sets a custom command runner (for testing).
func WithWhisperRunner(runner func(ctx context.Context, name string, args ...string) error) WhisperOption {
	return func(w *WhisperCLI) {
		w.runner = runner
	}
}

// NewWhisperCLI constructs the local engine for the given model ("base",
// "small", ...).
func NewWhisperCLI(model string, opts ...WhisperOption) *WhisperCLI {
	engine := &WhisperCLI{uvxBinary: uvxCommand, model: model}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Name identifies the engine.
func (w *WhisperCLI) Name() string { return "whisper-cli" }

// Model returns the configured model name for logging.
func (w *WhisperCLI) Model() string { return w.model }

// Available reports whether the uvx runner is on PATH.
func (w *WhisperCLI) Available(ctx context.Context) error {
	if _, err := exec.LookPath(w.uvxBinary); err != nil {
		return fmt.Errorf("uvx binary %q not found: %w", w.uvxBinary, err)
	}
	return nil
}

// Transcribe runs whisper over the WAV file and parses its JSON output.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath, language string) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, fmt.Errorf("whisper: audio path required")
	}

	outputDir, err := os.MkdirTemp("", "whisper-out-*")
	if err != nil {
		return Result{}, fmt.Errorf("whisper: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := w.buildArgs(audioPath, outputDir, language)
	if err := w.run(ctx, w.uvxBinary, args...); err != nil {
		return Result{}, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("whisper: read result: %w", err)
	}

	segments, err := ParseWhisperJSON(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Segments: segments, Raw: raw}, nil
}

func (w *WhisperCLI) buildArgs(audioPath, outputDir, language string) []string {
	args := []string{
		"--from", whisperPackage,
		whisperCommand,
		audioPath,
		"--model", w.model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
	}
	if language = strings.TrimSpace(language); language != "" {
		args = append(args, "--language", language)
	}
	return args
}

func (w *WhisperCLI) run(ctx context.Context, name string, args ...string) error {
	if w.runner != nil {
		return w.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// whisperPayload is the JSON structure the whisper CLI writes.
type whisperPayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// ParseWhisperJSON decodes a whisper JSON result into ordered segments. The
// per-segment avg_logprob becomes the confidence score.
func ParseWhisperJSON(data []byte) ([]Segment, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	segments := make([]Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.AvgLogprob,
		})
	}
	return cleanSegments(segments), nil
}

var _ Engine = (*WhisperCLI)(nil)
