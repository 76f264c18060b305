package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateGenerators()
}

func (c *Config) validateServer() error {
	if c.Addr == "" {
		return errors.New("addr must be set")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	return nil
}

func (c *Config) validateGenerators() error {
	if c.DefaultTemplate == "" {
		return errors.New("default_template must be set")
	}
	if c.RivPath == "" {
		return errors.New("riv_path must be set")
	}
	if c.PresetLayer <= 0 {
		return fmt.Errorf("preset_layer must be positive, got %d", c.PresetLayer)
	}
	return nil
}
