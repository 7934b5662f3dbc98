// Package config loads and validates gateway configuration. Files are YAML;
// the decoded value is validated against an embedded CUE schema using the
// CUE SDK's Go API directly (not a CLI subprocess).
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the gateway settings.
type Config struct {
	ListenAddr           string `yaml:"listen_addr" json:"listen_addr"`
	RendererURL          string `yaml:"renderer_url" json:"renderer_url"`
	RenderTimeoutSeconds int    `yaml:"render_timeout_seconds" json:"render_timeout_seconds"`
	DatabasePath         string `yaml:"database_path" json:"database_path"`
	Locale               string `yaml:"locale" json:"locale"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddr:           ":8080",
		RendererURL:          "http://localhost:8081",
		RenderTimeoutSeconds: 30,
		DatabasePath:         "",
		Locale:               "en",
	}
}

// RenderTimeout returns the renderer timeout as a duration.
func (c Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSeconds) * time.Second
}

// Load reads a YAML config file, fills unset fields from Default, and
// validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate unifies the config with the embedded CUE schema.
func (c Config) Validate() error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	unified := schema.Unify(cctx.Encode(c))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
