// Package action exposes the pipeline's operations behind a single
// name-plus-parameters dispatch call. Host frameworks (and the CLI's JSON
// mode) hand it a Request and get back a structured Response; no error or
// panic crosses the boundary.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vidindex/internal/logging"
	"vidindex/internal/pipeline"
	"vidindex/internal/services"
)

// Action names accepted by Dispatch.
const (
	ActionUpload       = "upload"
	ActionTranscribe   = "transcribe"
	ActionDetectScenes = "detect_scenes"
	ActionSearch       = "search"
	ActionGetInfo      = "get_info"
)

// Request names an action and carries its parameters. Unused fields are
// ignored by actions that do not need them.
type Request struct {
	Action    string  `json:"action"`
	VideoPath string  `json:"video_path,omitempty"`
	VideoID   string  `json:"video_id,omitempty"`
	Query     string  `json:"query,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Response is the structured outcome of one dispatched action. Message is
// human-readable status text; Kind names the error taxonomy entry when OK is
// false.
type Response struct {
	OK      bool   `json:"ok"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`

	Video      *VideoPayload    `json:"video,omitempty"`
	Info       *InfoPayload     `json:"info,omitempty"`
	Segments   []SegmentPayload `json:"segments,omitempty"`
	Scenes     []ScenePayload   `json:"scenes,omitempty"`
	Transcript string           `json:"transcript,omitempty"`
}

// Dispatcher routes requests into a pipeline.
type Dispatcher struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewDispatcher wires a dispatcher to the pipeline. A nil logger disables
// dispatch logging.
func NewDispatcher(p *pipeline.Pipeline, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{pipeline: p, logger: logging.WithComponent(logger, "action")}
}

// Dispatch executes the named action and reports its outcome. Unknown
// actions and missing parameters resolve to InvalidArgument failures.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	name := strings.TrimSpace(req.Action)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := d.logger.With(logging.Args(logging.ContextFields(ctx)...)...)
	logger.Debug("dispatching action", logging.String("action", name))

	var resp Response
	switch name {
	case ActionUpload:
		resp = d.upload(ctx, req)
	case ActionTranscribe:
		resp = d.transcribe(ctx, req)
	case ActionDetectScenes:
		resp = d.detectScenes(ctx, req)
	case ActionSearch:
		resp = d.search(ctx, req)
	case ActionGetInfo:
		resp = d.getInfo(ctx, req)
	default:
		err := services.Wrap(services.ErrInvalidArgument, "action", "dispatch",
			fmt.Sprintf("unknown action %q", req.Action), nil)
		resp = failure(name, err)
	}
	resp.Action = name
	if !resp.OK {
		logger.Warn("action failed",
			logging.String("action", name),
			logging.String("kind", resp.Kind),
			logging.String("error", resp.Error))
	}
	return resp
}

func (d *Dispatcher) upload(ctx context.Context, req Request) Response {
	video, err := d.pipeline.Ingest(ctx, req.VideoPath, req.VideoID)
	if err != nil {
		return failure(req.Action, err)
	}
	payload := videoPayload(video)
	return Response{
		OK:      true,
		Message: fmt.Sprintf("Video uploaded and processed successfully. ID: %s", video.ID),
		Video:   &payload,
	}
}

func (d *Dispatcher) transcribe(ctx context.Context, req Request) Response {
	if _, err := requireID(req); err != nil {
		return failure(req.Action, err)
	}
	count, err := d.pipeline.Transcribe(ctx, req.VideoID)
	if err != nil {
		return failure(req.Action, err)
	}
	segments, err := d.pipeline.ListSegments(ctx, req.VideoID)
	if err != nil {
		return failure(req.Action, err)
	}
	return Response{
		OK:         true,
		Message:    fmt.Sprintf("Transcription complete: %d segments.", count),
		Segments:   segmentPayloads(segments),
		Transcript: joinedText(segments),
	}
}

func (d *Dispatcher) detectScenes(ctx context.Context, req Request) Response {
	if _, err := requireID(req); err != nil {
		return failure(req.Action, err)
	}
	stored, err := d.pipeline.DetectScenes(ctx, req.VideoID, req.Threshold)
	if err != nil {
		return failure(req.Action, err)
	}
	return Response{
		OK:      true,
		Message: fmt.Sprintf("Detected %d scenes.", len(stored)),
		Scenes:  scenePayloads(stored),
	}
}

func (d *Dispatcher) search(ctx context.Context, req Request) Response {
	if _, err := requireID(req); err != nil {
		return failure(req.Action, err)
	}
	hits, err := d.pipeline.SearchTranscript(ctx, req.VideoID, req.Query)
	if err != nil {
		return failure(req.Action, err)
	}
	return Response{
		OK:       true,
		Message:  fmt.Sprintf("Found %d matching segments.", len(hits)),
		Segments: segmentPayloads(hits),
	}
}

func (d *Dispatcher) getInfo(ctx context.Context, req Request) Response {
	if _, err := requireID(req); err != nil {
		return failure(req.Action, err)
	}
	info, err := d.pipeline.GetInfo(ctx, req.VideoID)
	if err != nil {
		return failure(req.Action, err)
	}
	payload := infoPayload(info)
	return Response{
		OK: true,
		Message: fmt.Sprintf("%s: %.1fs, %d segments, %d scenes, status %s.",
			info.Video.ID, info.Video.Duration, info.SegmentCount, info.SceneCount, info.Status),
		Info: &payload,
	}
}

func requireID(req Request) (string, error) {
	id := strings.TrimSpace(req.VideoID)
	if id == "" {
		return "", services.Wrap(services.ErrInvalidArgument, "action", req.Action, "video_id required", nil)
	}
	return id, nil
}

func failure(action string, err error) Response {
	return Response{
		Action: action,
		Error:  err.Error(),
		Kind:   services.Kind(err),
	}
}
