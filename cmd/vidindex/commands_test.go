package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"vidindex/internal/action"
	"vidindex/internal/media/ffprobe"
	"vidindex/internal/pipeline"
	"vidindex/internal/scenes"
	"vidindex/internal/testsupport"
	"vidindex/internal/transcribe"
)

type cliTestEnv struct {
	ctx        *commandContext
	configPath string
	json       bool

	// flag variables the root command binds; populated by Execute.
	configFlagVar string
	jsonFlagVar   bool
}

func setupCLITestEnv(t *testing.T, opts ...pipeline.Option) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	body := fmt.Sprintf("[paths]\nstorage_root = %q\nscratch_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "library"), filepath.Join(base, "scratch"))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env := &cliTestEnv{configPath: configPath}
	env.ctx = newCommandContext(&env.configFlagVar, &env.jsonFlagVar)

	stubbed := []pipeline.Option{
		pipeline.WithFFmpegClient(testsupport.FakeFFmpeg(t)),
		pipeline.WithProber(testsupport.StaticProber(ffprobe.Metadata{Duration: 8, FPS: 24, FrameCount: 192, Width: 640, Height: 360})),
		pipeline.WithEngine(&testsupport.StubEngine{}),
		pipeline.WithDetector(&testsupport.StubDetector{}),
	}
	env.ctx.pipelineOptions = append(stubbed, opts...)
	return env
}

// run executes a command line through the full root command, the way
// production does, so root's flag wiring and error silencing apply.
func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"--config", e.configPath}, args...)
	if e.json {
		full = append(full, "--json")
	}

	root := newRootCommandFor(e.ctx)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(full)
	err := root.Execute()
	return out.String(), err
}

func TestIngestCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.json = true

	out, err := env.run(t, "ingest", testsupport.SourceVideo(t, "trip.mp4"), "--id", "trip")
	if err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}

	var resp action.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !resp.OK || resp.Video == nil || resp.Video.VideoID != "trip" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestIngestCommandHumanOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "ingest", testsupport.SourceVideo(t, "trip.mp4"), "--id", "trip")
	if err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("trip")) {
		t.Errorf("output missing video id:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("640x360")) {
		t.Errorf("output missing resolution:\n%s", out)
	}
}

func TestTranscribeAndSearchCommands(t *testing.T) {
	engine := &testsupport.StubEngine{Result: transcribe.Result{
		Segments: []transcribe.Segment{
			{Start: 0, End: 2, Text: "rain on the window", Confidence: -0.4},
			{Start: 2, End: 4, Text: "thunder far away", Confidence: -0.6},
		},
	}}
	env := setupCLITestEnv(t, pipeline.WithEngine(engine))

	if out, err := env.run(t, "ingest", testsupport.SourceVideo(t, "storm.mp4"), "--id", "storm"); err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}

	out, err := env.run(t, "transcribe", "storm")
	if err != nil {
		t.Fatalf("transcribe failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("2 segments")) {
		t.Errorf("output missing segment count:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("rain on the window thunder far away")) {
		t.Errorf("output missing joined transcript:\n%s", out)
	}

	env.json = true
	out, err = env.run(t, "search", "storm", "THUNDER")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	var resp action.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, out)
	}
	if len(resp.Segments) != 1 || resp.Segments[0].Text != "thunder far away" {
		t.Fatalf("unexpected hits: %+v", resp.Segments)
	}
}

func TestScenesCommand(t *testing.T) {
	detector := &testsupport.StubDetector{Boundaries: []scenes.Boundary{
		{Start: 0, End: 3},
		{Start: 3, End: 8},
	}}
	env := setupCLITestEnv(t, pipeline.WithDetector(detector))

	if out, err := env.run(t, "ingest", testsupport.SourceVideo(t, "hike.mp4"), "--id", "hike"); err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}

	out, err := env.run(t, "scenes", "hike", "--threshold", "35")
	if err != nil {
		t.Fatalf("scenes failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("Detected 2 scenes")) {
		t.Errorf("output missing scene count:\n%s", out)
	}
	if detector.Threshold != 35 {
		t.Errorf("threshold forwarded = %v", detector.Threshold)
	}
}

func TestInfoCommandUnknownVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "info", "ghost")
	if err == nil {
		t.Fatalf("expected error for unknown video, output:\n%s", out)
	}
}

func TestInfoCommandJSONFailureKeepsPayload(t *testing.T) {
	env := setupCLITestEnv(t)
	env.json = true

	out, err := env.run(t, "info", "ghost")
	if err == nil {
		t.Fatal("expected non-zero result for unknown video")
	}
	var resp action.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("failure output is not JSON: %v\n%s", err, out)
	}
	if resp.OK || resp.Kind != "NotFound" {
		t.Fatalf("unexpected failure payload: %+v", resp)
	}
}

func TestListCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if out, err := env.run(t, "ingest", testsupport.SourceVideo(t, "one.mp4"), "--id", "one"); err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}
	out, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("one.mp4")) {
		t.Errorf("output missing listed video:\n%s", out)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"ingest", "transcribe", "scenes", "search", "info", "list", "status", "config"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
