package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/goliatone/go-rivegen/pkg/httpapi"
	"github.com/goliatone/go-rivegen/pkg/orchestrator"
	"github.com/goliatone/go-rivegen/pkg/preset"
	"github.com/goliatone/go-rivegen/pkg/renderers/caspar"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectFile is looked up in the working directory when no path is given.
const ProjectFile = "rivegen.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RIVEGEN_"

// Config holds every setting of the CLI and the HTTP server.
type Config struct {
	Addr             string `toml:"addr" env:"ADDR"`
	LogLevel         string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat        string `toml:"log_format" env:"LOG_FORMAT"`
	DefaultTemplate  string `toml:"default_template" env:"DEFAULT_TEMPLATE"`
	LenientTemplates bool   `toml:"lenient_templates" env:"LENIENT_TEMPLATES"`
	RivPath          string `toml:"riv_path" env:"RIV_PATH"`
	CanvasRuntimeURL string `toml:"canvas_runtime_url" env:"CANVAS_RUNTIME_URL"`
	WebGLRuntimeURL  string `toml:"webgl_runtime_url" env:"WEBGL_RUNTIME_URL"`
	TemplatesDir     string `toml:"templates_dir" env:"TEMPLATES_DIR"`
	SchemaPatch      string `toml:"schema_patch" env:"SCHEMA_PATCH"`
	MaxBodyBytes     int64  `toml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	PresetLayer      int    `toml:"preset_layer" env:"PRESET_LAYER"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:             ":8080",
		LogLevel:         "info",
		LogFormat:        "auto",
		DefaultTemplate:  caspar.KeyCanvas,
		RivPath:          caspar.DefaultRivPath,
		CanvasRuntimeURL: caspar.DefaultCanvasRuntimeURL,
		WebGLRuntimeURL:  caspar.DefaultWebGLRuntimeURL,
		MaxBodyBytes:     httpapi.DefaultMaxBodyBytes,
		PresetLayer:      preset.DefaultLayer,
	}
}

// Load reads defaults, the optional TOML file and environment overrides, then
// validates the result. An explicit path must exist; without one ProjectFile
// is used when present. It returns the resolved path and whether a file was
// read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config %s is a directory", path)
		}
		return path, true, nil
	}

	projectPath, err := filepath.Abs(ProjectFile)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(projectPath)
	switch {
	case err == nil && !info.IsDir():
		return projectPath, true, nil
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("stat config: %w", err)
	}
}

func (c *Config) normalize() {
	c.Addr = strings.TrimSpace(c.Addr)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.DefaultTemplate = strings.TrimSpace(c.DefaultTemplate)
	c.RivPath = strings.TrimSpace(c.RivPath)
	c.CanvasRuntimeURL = strings.TrimSpace(c.CanvasRuntimeURL)
	c.WebGLRuntimeURL = strings.TrimSpace(c.WebGLRuntimeURL)
	c.TemplatesDir = strings.TrimSpace(c.TemplatesDir)
	c.SchemaPatch = strings.TrimSpace(c.SchemaPatch)
}

// OrchestratorDefaults maps the generator settings onto orchestrator
// defaults.
func (c *Config) OrchestratorDefaults() orchestrator.Defaults {
	return orchestrator.Defaults{
		RivPath:          c.RivPath,
		CanvasRuntimeURL: c.CanvasRuntimeURL,
		WebGLRuntimeURL:  c.WebGLRuntimeURL,
		PresetLayer:      c.PresetLayer,
		TemplatesDir:     c.TemplatesDir,
	}
}

// Sample returns the commented sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
