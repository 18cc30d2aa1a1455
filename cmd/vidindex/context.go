package main

import (
	"log/slog"
	"strings"
	"sync"

	"vidindex/internal/action"
	"vidindex/internal/config"
	"vidindex/internal/logging"
	"vidindex/internal/pipeline"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// pipelineOptions lets tests swap the external-tool collaborators.
	pipelineOptions []pipeline.Option
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.jsonOutput() {
		// Keep machine output clean; diagnostics still surface as errors.
		return logging.NewNop(), nil
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// withDispatcher opens the pipeline for the duration of fn and routes the
// command through the action layer.
func (c *commandContext) withDispatcher(fn func(d *action.Dispatcher, p *pipeline.Pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.newLogger()
	if err != nil {
		return err
	}

	opts := append([]pipeline.Option{pipeline.WithLogger(logger)}, c.pipelineOptions...)
	p, err := pipeline.Open(cfg, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	return fn(action.NewDispatcher(p, logger), p)
}
