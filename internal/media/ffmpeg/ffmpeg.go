package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its combined output on
// failure. Tests substitute it to avoid invoking a real ffmpeg.
type Runner func(ctx context.Context, name string, args ...string) error

// Client wraps the ffmpeg command-line tool.
type Client struct {
	binary string
	runner Runner
}

// Option configures the client.
type Option func(*Client)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithRunner sets a custom command runner (for testing).
func WithRunner(runner Runner) Option {
	return func(c *Client) {
		c.runner = runner
	}
}

// New constructs a client using defaults.
func New(opts ...Option) *Client {
	client := &Client{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Transcode normalizes source into an H.264/AAC copy at dest, overwriting
// any existing file. The destination extension selects the container; the
// pipeline always passes an .mp4 path.
func (c *Client) Transcode(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("transcode: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("transcode: destination path required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-c:v", "libx264",
		"-c:a", "aac",
		dest,
	}
	return c.run(ctx, args)
}

// ExtractAudio writes the audio track of source to dest as mono 16 kHz
// pcm_s16le WAV, the input format speech engines expect.
func (c *Client) ExtractAudio(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("extract audio: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("extract audio: destination path required")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	return c.run(ctx, args)
}

// ExtractFrame writes the frame of source at timestamp (seconds) to dest as
// a single image. The timestamp seek happens before the input so ffmpeg uses
// the fast keyframe-accurate path.
func (c *Client) ExtractFrame(ctx context.Context, source string, timestamp float64, dest string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("extract frame: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("extract frame: destination path required")
	}
	if timestamp < 0 {
		return fmt.Errorf("extract frame: negative timestamp %v", timestamp)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", source,
		"-frames:v", "1",
		"-q:v", "2",
		dest,
	}
	return c.run(ctx, args)
}

func (c *Client) run(ctx context.Context, args []string) error {
	if c.runner != nil {
		return c.runner(ctx, c.binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}
