package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"vidindex/internal/config"
	"vidindex/internal/index"
	"vidindex/internal/logging"
	"vidindex/internal/media/ffmpeg"
	"vidindex/internal/media/ffprobe"
	"vidindex/internal/scenes"
	"vidindex/internal/services"
	"vidindex/internal/storage"
	"vidindex/internal/transcribe"
)

// Prober inspects a stored video file and reports its stream metadata.
type Prober func(ctx context.Context, path string) (ffprobe.Metadata, error)

// Pipeline coordinates the processing stages over one storage root.
type Pipeline struct {
	cfg      *config.Config
	layout   *storage.Layout
	store    *index.Store
	ffmpeg   *ffmpeg.Client
	probe    Prober
	engine   transcribe.Engine
	detector scenes.Detector
	logger   *slog.Logger

	lock  *flock.Flock
	locks *keyedMutex
}

// Option overrides a pipeline collaborator, primarily for tests.
type Option func(*Pipeline)

// WithEngine replaces the transcription engine.
func WithEngine(engine transcribe.Engine) Option {
	return func(p *Pipeline) {
		if engine != nil {
			p.engine = engine
		}
	}
}

// WithDetector replaces the scene detector.
func WithDetector(detector scenes.Detector) Option {
	return func(p *Pipeline) {
		if detector != nil {
			p.detector = detector
		}
	}
}

// WithFFmpegClient replaces the ffmpeg client.
func WithFFmpegClient(client *ffmpeg.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.ffmpeg = client
		}
	}
}

// WithProber replaces the stream metadata prober.
func WithProber(probe Prober) Option {
	return func(p *Pipeline) {
		if probe != nil {
			p.probe = probe
		}
	}
}

// WithLogger replaces the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Open prepares the storage layout, acquires the instance lock, and opens
// the index. The caller must Close the pipeline to release both.
func Open(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrInvalidArgument, "pipeline", "open", "nil config", nil)
	}

	layout, err := storage.New(cfg.Paths.StorageRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreIO, "pipeline", "open", "prepare storage layout", err)
	}

	lock := flock.New(layout.LockPath())
	held, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrStoreIO, "pipeline", "open", "acquire instance lock", err)
	}
	if !held {
		return nil, services.Wrap(services.ErrStoreIO, "pipeline", "open",
			fmt.Sprintf("storage root already in use (lock %s)", layout.LockPath()), nil)
	}

	store, err := index.Open(layout.IndexPath())
	if err != nil {
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrStoreIO, "pipeline", "open", "open index", err)
	}

	p := &Pipeline{
		cfg:    cfg,
		layout: layout,
		store:  store,
		ffmpeg: ffmpeg.New(ffmpeg.WithBinary(cfg.Tools.FFmpeg)),
		logger: logging.NewNop(),
		lock:   lock,
		locks:  newKeyedMutex(),
	}
	p.probe = func(ctx context.Context, path string) (ffprobe.Metadata, error) {
		return ffprobe.Probe(ctx, cfg.Tools.FFprobe, path)
	}
	p.engine = engineFor(cfg)
	p.detector = scenes.NewSceneDetectCLI(layout.ScenesDir(), scenes.WithUVXBinary(cfg.Tools.UVX))

	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.WithComponent(p.logger, "pipeline")
	return p, nil
}

func engineFor(cfg *config.Config) transcribe.Engine {
	switch cfg.Transcription.Engine {
	case config.EngineOpenAI:
		return transcribe.NewOpenAIEngine(transcribe.OpenAIConfig{
			BaseURL: cfg.Transcription.OpenAIBaseURL,
			APIKey:  cfg.Transcription.OpenAIAPIKey,
			Model:   cfg.Transcription.OpenAIModel,
		})
	default:
		return transcribe.NewWhisperCLI(cfg.Transcription.Model,
			transcribe.WithUVXBinary(cfg.Tools.UVX))
	}
}

// Close releases the index and the instance lock.
func (p *Pipeline) Close() error {
	var errs []error
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.lock != nil {
		if err := p.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Layout exposes the storage layout for path resolution in callers.
func (p *Pipeline) Layout() *storage.Layout { return p.layout }

// Store exposes the index for read-side callers.
func (p *Pipeline) Store() *index.Store { return p.store }

// mapStoreErr translates index errors into the service taxonomy.
func mapStoreErr(stage, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, index.ErrNotFound):
		return services.Wrap(services.ErrNotFound, stage, operation, "video not indexed", err)
	case errors.Is(err, index.ErrInvalidQuery), errors.Is(err, index.ErrInvalidRecord):
		return services.Wrap(services.ErrInvalidArgument, stage, operation, "rejected by index", err)
	default:
		return services.Wrap(services.ErrStoreIO, stage, operation, "index operation failed", err)
	}
}
