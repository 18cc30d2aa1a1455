package config

const (
	defaultStorageRoot    = "~/.local/share/vidindex"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultUVXBinary      = "uvx"
	defaultEngine         = "whisper"
	defaultWhisperModel   = "base"
	defaultOpenAIModel    = "whisper-1"
	defaultSceneThreshold = 27.0
)

// EngineWhisper and EngineOpenAI name the supported transcription backends.
const (
	EngineWhisper = "whisper"
	EngineOpenAI  = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			UVX:     defaultUVXBinary,
		},
		Transcription: Transcription{
			Engine: defaultEngine,
			Model:  defaultWhisperModel,
		},
		SceneDetection: SceneDetection{
			Threshold: defaultSceneThreshold,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
