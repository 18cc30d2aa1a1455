package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSceneDetection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.MinFreeBytes < 0 {
		return errors.New("min_free_bytes must not be negative")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StorageRoot == "" {
		return errors.New("paths.storage_root must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case EngineWhisper:
		return nil
	case EngineOpenAI:
		if c.Transcription.OpenAIAPIKey == "" {
			return errors.New("transcription.openai_api_key is required when transcription.engine is \"openai\". Set OPENAI_API_KEY or edit the config file")
		}
		return nil
	default:
		return fmt.Errorf("transcription.engine: unsupported value %q (expected %q or %q)", c.Transcription.Engine, EngineWhisper, EngineOpenAI)
	}
}

func (c *Config) validateSceneDetection() error {
	if c.SceneDetection.Threshold <= 0 {
		return errors.New("scene_detection.threshold must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
