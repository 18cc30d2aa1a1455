package deps

import "vidindex/internal/config"

// For builds the external tool requirements for the given configuration.
// uvx runs both the Whisper CLI and PySceneDetect; it stays required even
// with the OpenAI engine because scene detection always needs it.
func For(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Transcoding, audio extraction, and keyframe capture",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Container and stream inspection",
		},
		{
			Name:        "uvx",
			Command:     cfg.Tools.UVX,
			Description: "Runs the Whisper CLI and PySceneDetect",
		},
	}
	return reqs
}

// Missing filters statuses down to required dependencies that are absent.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
