package testsupport

import (
	"context"
	"errors"
	"os"
	"testing"

	"vidindex/internal/media/ffmpeg"
	"vidindex/internal/media/ffprobe"
	"vidindex/internal/pipeline"
	"vidindex/internal/scenes"
	"vidindex/internal/transcribe"
)

// StubEngine is a canned transcription engine for tests.
type StubEngine struct {
	AvailErr error
	Result   transcribe.Result
	Err      error
	Calls    int
}

func (e *StubEngine) Name() string { return "stub-engine" }

func (e *StubEngine) Available(ctx context.Context) error { return e.AvailErr }

func (e *StubEngine) Transcribe(ctx context.Context, audioPath, language string) (transcribe.Result, error) {
	e.Calls++
	if e.Err != nil {
		return transcribe.Result{}, e.Err
	}
	return e.Result, nil
}

// StubDetector is a canned scene detector for tests.
type StubDetector struct {
	AvailErr   error
	Boundaries []scenes.Boundary
	Err        error
	Threshold  float64
}

func (d *StubDetector) Name() string { return "stub-detector" }

func (d *StubDetector) Available(ctx context.Context) error { return d.AvailErr }

func (d *StubDetector) DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]scenes.Boundary, error) {
	d.Threshold = threshold
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Boundaries, nil
}

// FakeFFmpeg returns an ffmpeg client whose runner writes a marker file at
// the command's destination path instead of invoking the real binary.
func FakeFFmpeg(t testing.TB) *ffmpeg.Client {
	t.Helper()

	return ffmpeg.New(ffmpeg.WithRunner(func(ctx context.Context, name string, args ...string) error {
		if len(args) == 0 {
			return errors.New("fake ffmpeg: no args")
		}
		return os.WriteFile(args[len(args)-1], []byte("media"), 0o644)
	}))
}

// StaticProber returns a prober reporting fixed stream metadata.
func StaticProber(meta ffprobe.Metadata) pipeline.Prober {
	return func(ctx context.Context, path string) (ffprobe.Metadata, error) {
		return meta, nil
	}
}

// MustOpenPipeline opens a pipeline against the config with stubbed
// collaborators and registers cleanup. Extra options override the stubs.
func MustOpenPipeline(t testing.TB, opts ...pipeline.Option) *pipeline.Pipeline {
	t.Helper()

	cfg := NewConfig(t)
	base := []pipeline.Option{
		pipeline.WithFFmpegClient(FakeFFmpeg(t)),
		pipeline.WithProber(StaticProber(ffprobe.Metadata{Duration: 10, FPS: 25, FrameCount: 250, Width: 1280, Height: 720})),
		pipeline.WithEngine(&StubEngine{}),
		pipeline.WithDetector(&StubDetector{}),
	}
	p, err := pipeline.Open(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("pipeline.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = p.Close()
	})
	return p
}
