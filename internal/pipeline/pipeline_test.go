package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidindex/internal/config"
	"vidindex/internal/media/ffmpeg"
	"vidindex/internal/media/ffprobe"
	"vidindex/internal/scenes"
	"vidindex/internal/services"
	"vidindex/internal/transcribe"
)

type stubEngine struct {
	name     string
	availErr error
	result   transcribe.Result
	err      error
	calls    int
	language string
}

func (e *stubEngine) Name() string {
	if e.name == "" {
		return "stub-engine"
	}
	return e.name
}

func (e *stubEngine) Available(ctx context.Context) error { return e.availErr }

func (e *stubEngine) Transcribe(ctx context.Context, audioPath, language string) (transcribe.Result, error) {
	e.calls++
	e.language = language
	if e.err != nil {
		return transcribe.Result{}, e.err
	}
	return e.result, nil
}

type stubDetector struct {
	availErr   error
	boundaries []scenes.Boundary
	err        error
	threshold  float64
}

func (d *stubDetector) Name() string { return "stub-detector" }

func (d *stubDetector) Available(ctx context.Context) error { return d.availErr }

func (d *stubDetector) DetectScenes(ctx context.Context, videoPath string, threshold float64) ([]scenes.Boundary, error) {
	d.threshold = threshold
	if d.err != nil {
		return nil, d.err
	}
	return d.boundaries, nil
}

// fakeFFmpeg returns a client whose runner writes a marker file at the
// command's destination path (always the final argument).
func fakeFFmpeg(t *testing.T) *ffmpeg.Client {
	t.Helper()
	return ffmpeg.New(ffmpeg.WithRunner(func(ctx context.Context, name string, args ...string) error {
		if len(args) == 0 {
			return errors.New("no args")
		}
		return os.WriteFile(args[len(args)-1], []byte("media"), 0o644)
	}))
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StorageRoot = filepath.Join(t.TempDir(), "library")
	cfg.Paths.ScratchDir = t.TempDir()

	base := []Option{
		WithFFmpegClient(fakeFFmpeg(t)),
		WithProber(func(ctx context.Context, path string) (ffprobe.Metadata, error) {
			return ffprobe.Metadata{Duration: 12.5, FPS: 25, FrameCount: 312, Width: 1280, Height: 720}, nil
		}),
		WithEngine(&stubEngine{}),
		WithDetector(&stubDetector{}),
	}
	p, err := Open(&cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return p
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("source"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StorageRoot = filepath.Join(t.TempDir(), "library")
	cfg.Paths.ScratchDir = t.TempDir()

	first, err := Open(&cfg)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	defer first.Close()

	if _, err := Open(&cfg); err == nil {
		t.Fatal("expected second Open against the same root to fail")
	}
}

func TestIngestStoresVideo(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSource(t, "holiday clip.mp4")

	video, err := p.Ingest(context.Background(), source, "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if video.ID == "" {
		t.Fatal("expected generated video id")
	}
	if !strings.HasPrefix(video.ID, "holiday_clip_") {
		t.Errorf("id %q does not start with sanitized stem", video.ID)
	}
	if video.Filename != "holiday clip.mp4" {
		t.Errorf("filename = %q", video.Filename)
	}
	if video.Duration != 12.5 || video.FPS != 25 || video.Width != 1280 || video.Height != 720 {
		t.Errorf("unexpected metadata: %+v", video)
	}

	if _, err := os.Stat(p.Layout().VideoPath(video.ID)); err != nil {
		t.Errorf("stored video file missing: %v", err)
	}

	stored, err := p.Store().GetVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if stored.Filename != video.Filename {
		t.Errorf("index row filename = %q", stored.Filename)
	}
}

func TestIngestCallerIDReplacesDerivedState(t *testing.T) {
	engine := &stubEngine{result: transcribe.Result{
		Segments: []transcribe.Segment{{Start: 0, End: 1, Text: "stale words", Confidence: -0.2}},
	}}
	p := newTestPipeline(t, WithEngine(engine))

	video, err := p.Ingest(context.Background(), writeSource(t, "clip.mp4"), "my-clip")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if video.ID != "my-clip" {
		t.Fatalf("caller id not used verbatim: %q", video.ID)
	}
	if _, err := p.Transcribe(context.Background(), video.ID); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if _, err := p.Ingest(context.Background(), writeSource(t, "clip2.mp4"), "my-clip"); err != nil {
		t.Fatalf("re-ingest failed: %v", err)
	}
	segments, err := p.ListSegments(context.Background(), "my-clip")
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("derived rows survived re-ingest: %+v", segments)
	}
	info, err := p.GetInfo(context.Background(), "my-clip")
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Status != StatusIngested {
		t.Fatalf("status after re-ingest = %s", info.Status)
	}
	if info.Video.Filename != "clip2.mp4" {
		t.Errorf("metadata not replaced: %q", info.Video.Filename)
	}
}

func TestFailedReingestKeepsPreviousFile(t *testing.T) {
	failing := false
	client := ffmpeg.New(ffmpeg.WithRunner(func(ctx context.Context, name string, args ...string) error {
		if failing {
			return errors.New("encoder crashed")
		}
		return os.WriteFile(args[len(args)-1], []byte("media"), 0o644)
	}))
	p := newTestPipeline(t, WithFFmpegClient(client))

	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "vid-a")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	failing = true
	_, err = p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "vid-a")
	if !errors.Is(err, services.ErrTranscodeFailed) {
		t.Fatalf("expected TranscodeFailed, got %v", err)
	}

	// The prior normalized copy and its row must survive the failed attempt.
	if _, err := os.Stat(p.Layout().VideoPath(video.ID)); err != nil {
		t.Fatalf("normalized file lost after failed re-ingest: %v", err)
	}
	info, err := p.GetInfo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetInfo after failed re-ingest: %v", err)
	}
	if info.Status != StatusIngested {
		t.Errorf("status = %v, want %v", info.Status, StatusIngested)
	}
}

func TestIngestRejectsUnsafeCallerID(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSource(t, "movie.mp4")

	for _, id := range []string{"../escape", "a/b", "a b", "clip.", "vidéo"} {
		_, err := p.Ingest(context.Background(), source, id)
		if !errors.Is(err, services.ErrInvalidArgument) {
			t.Errorf("id %q: expected InvalidArgument, got %v", id, err)
		}
	}
}

func TestRemoveKeyframesIgnoresSiblingIDs(t *testing.T) {
	p := newTestPipeline(t)

	framesDir := p.Layout().FramesDir()
	own := filepath.Join(framesDir, "clip_scene_0.jpg")
	sibling := filepath.Join(framesDir, "clip_scene_1_scene_0.jpg")
	for _, path := range []string{own, sibling} {
		if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
			t.Fatalf("write keyframe: %v", err)
		}
	}

	p.removeKeyframesFrom("clip", 0)

	if _, err := os.Stat(own); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("own keyframe should be removed, stat: %v", err)
	}
	if _, err := os.Stat(sibling); err != nil {
		t.Errorf("sibling video's keyframe was deleted: %v", err)
	}
}

func TestStatusUnknownVideo(t *testing.T) {
	p := newTestPipeline(t)
	status, err := p.Status(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != StatusUnknown {
		t.Fatalf("status = %s, want unknown", status)
	}
}

func TestIngestMissingSource(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Ingest(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestIngestEmptyPath(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Ingest(context.Background(), "  ", "")
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestIngestTranscodeFailure(t *testing.T) {
	failing := ffmpeg.New(ffmpeg.WithRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("codec exploded")
	}))
	p := newTestPipeline(t, WithFFmpegClient(failing))
	source := writeSource(t, "clip.mp4")

	_, err := p.Ingest(context.Background(), source, "")
	if !errors.Is(err, services.ErrTranscodeFailed) {
		t.Fatalf("expected TranscodeFailed, got %v", err)
	}
}

func TestTranscribeStoresSegments(t *testing.T) {
	engine := &stubEngine{result: transcribe.Result{
		Segments: []transcribe.Segment{
			{Start: 0, End: 2.5, Text: "hello there", Confidence: -0.3},
			{Start: 2.5, End: 4, Text: "general remarks", Confidence: -0.7},
		},
		Raw: []byte(`{"segments":[]}`),
	}}
	p := newTestPipeline(t, WithEngine(engine))
	video, err := p.Ingest(context.Background(), writeSource(t, "talk.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	count, err := p.Transcribe(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 segments, got %d", count)
	}
	if engine.calls != 1 {
		t.Fatalf("expected one engine call, got %d", engine.calls)
	}

	raw, err := os.ReadFile(p.Layout().TranscriptPath(video.ID))
	if err != nil {
		t.Fatalf("raw transcript not archived: %v", err)
	}
	if string(raw) != `{"segments":[]}` {
		t.Errorf("unexpected archived payload: %s", raw)
	}

	segments, err := p.ListSegments(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(segments) != 2 || segments[0].Text != "hello there" {
		t.Errorf("unexpected segments: %+v", segments)
	}
}

func TestTranscribeReplacesPrevious(t *testing.T) {
	engine := &stubEngine{result: transcribe.Result{
		Segments: []transcribe.Segment{{Start: 0, End: 1, Text: "first pass", Confidence: -0.2}},
	}}
	p := newTestPipeline(t, WithEngine(engine))
	video, err := p.Ingest(context.Background(), writeSource(t, "talk.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := p.Transcribe(context.Background(), video.ID); err != nil {
		t.Fatalf("first Transcribe failed: %v", err)
	}

	engine.result = transcribe.Result{
		Segments: []transcribe.Segment{
			{Start: 0, End: 1, Text: "second pass", Confidence: -0.4},
			{Start: 1, End: 2, Text: "more words", Confidence: -0.5},
		},
	}
	count, err := p.Transcribe(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("second Transcribe failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 segments after replace, got %d", count)
	}
	segments, err := p.ListSegments(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("ListSegments failed: %v", err)
	}
	if len(segments) != 2 || segments[0].Text != "second pass" {
		t.Errorf("old transcript leaked through: %+v", segments)
	}
}

func TestTranscribeUnknownVideo(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Transcribe(context.Background(), "nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestTranscribeEngineUnavailable(t *testing.T) {
	engine := &stubEngine{availErr: errors.New("uvx missing")}
	p := newTestPipeline(t, WithEngine(engine))
	video, err := p.Ingest(context.Background(), writeSource(t, "talk.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	_, err = p.Transcribe(context.Background(), video.ID)
	if !errors.Is(err, services.ErrEngineUnavailable) {
		t.Fatalf("expected EngineUnavailable, got %v", err)
	}
}

func TestTranscribePassesLanguageHint(t *testing.T) {
	engine := &stubEngine{}
	p := newTestPipeline(t, WithEngine(engine))
	p.cfg.Transcription.Language = "de"

	video, err := p.Ingest(context.Background(), writeSource(t, "talk.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := p.Transcribe(context.Background(), video.ID); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if engine.language != "de" {
		t.Errorf("language hint = %q, want de", engine.language)
	}
}

func TestDetectScenesStoresScenesAndKeyframes(t *testing.T) {
	detector := &stubDetector{boundaries: []scenes.Boundary{
		{Start: 0, End: 4.2},
		{Start: 4.2, End: 9.9},
	}}
	p := newTestPipeline(t, WithDetector(detector))
	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	stored, err := p.DetectScenes(context.Background(), video.ID, 30)
	if err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	if detector.threshold != 30 {
		t.Errorf("threshold = %v, want 30", detector.threshold)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(stored))
	}
	for i, scene := range stored {
		if scene.Number != i {
			t.Errorf("scene %d has number %d", i, scene.Number)
		}
		if _, err := os.Stat(scene.FramePath); err != nil {
			t.Errorf("keyframe %d missing: %v", i, err)
		}
	}
}

func TestDetectScenesDefaultThreshold(t *testing.T) {
	detector := &stubDetector{}
	p := newTestPipeline(t, WithDetector(detector))
	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := p.DetectScenes(context.Background(), video.ID, 0); err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	if detector.threshold != p.cfg.SceneDetection.Threshold {
		t.Errorf("threshold = %v, want configured %v", detector.threshold, p.cfg.SceneDetection.Threshold)
	}
}

func TestDetectScenesReplaceRemovesStaleKeyframes(t *testing.T) {
	detector := &stubDetector{boundaries: []scenes.Boundary{
		{Start: 0, End: 3},
		{Start: 3, End: 6},
		{Start: 6, End: 9},
	}}
	p := newTestPipeline(t, WithDetector(detector))
	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := p.DetectScenes(context.Background(), video.ID, 0); err != nil {
		t.Fatalf("first DetectScenes failed: %v", err)
	}
	staleFrame := p.Layout().KeyframePath(video.ID, 2)
	if _, err := os.Stat(staleFrame); err != nil {
		t.Fatalf("expected third keyframe before re-run: %v", err)
	}

	detector.boundaries = detector.boundaries[:1]
	stored, err := p.DetectScenes(context.Background(), video.ID, 0)
	if err != nil {
		t.Fatalf("second DetectScenes failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(stored))
	}
	if _, err := os.Stat(staleFrame); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale keyframe still present: %v", err)
	}
}

func TestDetectScenesEmptyResult(t *testing.T) {
	p := newTestPipeline(t, WithDetector(&stubDetector{}))
	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	stored, err := p.DetectScenes(context.Background(), video.ID, 0)
	if err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected no scenes, got %d", len(stored))
	}
}

func TestDetectScenesDetectorFailure(t *testing.T) {
	detector := &stubDetector{err: errors.New("ffmpeg backend crashed")}
	p := newTestPipeline(t, WithDetector(detector))
	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	_, err = p.DetectScenes(context.Background(), video.ID, 0)
	if !errors.Is(err, services.ErrSceneDetectFailed) {
		t.Fatalf("expected SceneDetectFailed, got %v", err)
	}
}

func TestDetectScenesKeyframeFailureAbortsBatch(t *testing.T) {
	// Transcode succeeds, keyframe extraction fails on the second frame.
	client := ffmpeg.New(ffmpeg.WithRunner(func(ctx context.Context, name string, args ...string) error {
		dest := args[len(args)-1]
		if strings.Contains(dest, "_scene_1") {
			return errors.New("encoder crashed")
		}
		return os.WriteFile(dest, []byte("media"), 0o644)
	}))
	detector := &stubDetector{boundaries: []scenes.Boundary{
		{Start: 0, End: 4},
		{Start: 4, End: 9},
	}}
	p := newTestPipeline(t, WithFFmpegClient(client), WithDetector(detector))

	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	_, err = p.DetectScenes(context.Background(), video.ID, 0)
	if !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ExtractionFailed, got %v", err)
	}

	stored, err := p.ListScenes(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("ListScenes failed: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected no committed scenes after keyframe failure, got %d", len(stored))
	}
}

func TestGetInfoStatusProgression(t *testing.T) {
	engine := &stubEngine{result: transcribe.Result{
		Segments: []transcribe.Segment{{Start: 0, End: 1, Text: "words", Confidence: -0.1}},
	}}
	detector := &stubDetector{boundaries: []scenes.Boundary{{Start: 0, End: 5}}}
	p := newTestPipeline(t, WithEngine(engine), WithDetector(detector))

	video, err := p.Ingest(context.Background(), writeSource(t, "movie.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	info, err := p.GetInfo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Status != StatusIngested {
		t.Fatalf("status after ingest = %s", info.Status)
	}

	if _, err := p.Transcribe(context.Background(), video.ID); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	info, err = p.GetInfo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Status != StatusTranscribed {
		t.Fatalf("status after transcribe = %s", info.Status)
	}
	if info.SegmentCount != 1 {
		t.Errorf("segment count = %d", info.SegmentCount)
	}
	if !info.HasTranscriptFile && len(engine.result.Raw) > 0 {
		t.Error("expected archived transcript file")
	}

	if _, err := p.DetectScenes(context.Background(), video.ID, 0); err != nil {
		t.Fatalf("DetectScenes failed: %v", err)
	}
	info, err = p.GetInfo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Status != StatusComplete {
		t.Fatalf("status after both stages = %s", info.Status)
	}
	if info.SceneCount != 1 {
		t.Errorf("scene count = %d", info.SceneCount)
	}
}

func TestGetInfoUnknownVideo(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.GetInfo(context.Background(), "ghost")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSearchTranscript(t *testing.T) {
	engine := &stubEngine{result: transcribe.Result{
		Segments: []transcribe.Segment{
			{Start: 0, End: 2, Text: "The Quick Brown Fox", Confidence: -0.1},
			{Start: 2, End: 4, Text: "jumps over the lazy dog", Confidence: -0.2},
		},
	}}
	p := newTestPipeline(t, WithEngine(engine))
	video, err := p.Ingest(context.Background(), writeSource(t, "fox.mp4"), "")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := p.Transcribe(context.Background(), video.ID); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	hits, err := p.SearchTranscript(context.Background(), video.ID, "quick brown")
	if err != nil {
		t.Fatalf("SearchTranscript failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Text != "The Quick Brown Fox" {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	if _, err := p.SearchTranscript(context.Background(), video.ID, "   "); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument for blank query, got %v", err)
	}
	if _, err := p.SearchTranscript(context.Background(), "ghost", "fox"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown video, got %v", err)
	}
}

func TestStatusForMapping(t *testing.T) {
	cases := []struct {
		segments, scenes int
		want             Status
	}{
		{0, 0, StatusIngested},
		{3, 0, StatusTranscribed},
		{0, 2, StatusSceneSegmented},
		{3, 2, StatusComplete},
	}
	for _, tc := range cases {
		if got := statusFor(tc.segments, tc.scenes); got != tc.want {
			t.Errorf("statusFor(%d, %d) = %s, want %s", tc.segments, tc.scenes, got, tc.want)
		}
	}
}
