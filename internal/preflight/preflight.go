package preflight

import (
	"context"
	"strings"

	"vidindex/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Storage root", cfg.Paths.StorageRoot),
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
	}

	if cfg.MinFreeBytes > 0 {
		results = append(results, CheckFreeSpace(cfg.Paths.StorageRoot, uint64(cfg.MinFreeBytes)))
	}

	if cfg.Transcription.Engine == config.EngineOpenAI {
		results = append(results, checkOpenAICredentials(cfg))
	}

	return results
}

func checkOpenAICredentials(cfg *config.Config) Result {
	const name = "OpenAI transcription"
	if strings.TrimSpace(cfg.Transcription.OpenAIAPIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	return Result{Name: name, Passed: true, Detail: "API key configured"}
}
