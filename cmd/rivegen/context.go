package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-rivegen/internal/config"
	"github.com/goliatone/go-rivegen/internal/logging"
	"github.com/goliatone/go-rivegen/pkg/orchestrator"
)

type commandContext struct {
	configFlag *string
	logOutput  io.Writer

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logOutput:  os.Stderr,
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			Output: c.logOutput,
		})
	})
	return c.logger, c.loggerErr
}

// orchestrator builds the pipeline from configuration. extraPatch, when set,
// is applied after the configured schema patch.
func (c *commandContext) orchestrator(extraPatch string) (*orchestrator.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	options := []orchestrator.Option{
		orchestrator.WithDefaults(cfg.OrchestratorDefaults()),
		orchestrator.WithDefaultTemplate(cfg.DefaultTemplate),
		orchestrator.WithLogger(logger),
	}
	if cfg.LenientTemplates {
		options = append(options, orchestrator.WithLenientTemplates())
	}
	for _, path := range []string{cfg.SchemaPatch, extraPatch} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		patch, err := orchestrator.NewPatchTransformerFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(patch))
	}

	orch := orchestrator.New(options...)
	if !orch.HasTemplate(cfg.DefaultTemplate) {
		return nil, fmt.Errorf("default_template %q is not a registered template", cfg.DefaultTemplate)
	}
	return orch, nil
}
