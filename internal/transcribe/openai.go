package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig captures settings for the remote engine. BaseURL may point at
// any OpenAI-compatible transcription endpoint.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAIEngine sends audio to an OpenAI-compatible transcription API and
// maps the verbose-JSON response onto segments.
type OpenAIEngine struct {
	cfg    OpenAIConfig
	client *openai.Client
}

// NewOpenAIEngine constructs the remote engine.
func NewOpenAIEngine(cfg OpenAIConfig) *OpenAIEngine {
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIEngine{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Name identifies the engine.
func (e *OpenAIEngine) Name() string { return "openai" }

// Available reports whether the engine is configured. Reachability of the
// endpoint is only discovered on the first call.
func (e *OpenAIEngine) Available(ctx context.Context) error {
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		return errors.New("openai engine: api key not configured")
	}
	return nil
}

// Transcribe uploads the WAV file and requests segment-level timestamps.
func (e *OpenAIEngine) Transcribe(ctx context.Context, audioPath, language string) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, fmt.Errorf("openai engine: audio path required")
	}

	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.cfg.Model,
		FilePath: audioPath,
		Language: strings.TrimSpace(language),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai engine: transcription request: %w", err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, Segment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.AvgLogprob,
		})
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return Result{}, fmt.Errorf("openai engine: marshal raw result: %w", err)
	}
	return Result{Segments: cleanSegments(segments), Raw: raw}, nil
}

var _ Engine = (*OpenAIEngine)(nil)
