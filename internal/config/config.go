// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads specgen settings from defaults, an optional YAML file,
// and SPECGEN_* environment variables.
package config

import "time"

// Config is the complete specgen configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Codegen CodegenConfig `yaml:"codegen" mapstructure:"codegen"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	State   StateConfig   `yaml:"state" mapstructure:"state"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// ExtractConfig tunes the specification extractor.
type ExtractConfig struct {
	HeaderMode string `yaml:"header_mode" mapstructure:"header_mode"` // "lenient" or "signature"
}

// CodegenConfig configures the code generation client.
type CodegenConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`       // "template" or "gemini"
	Model       string        `yaml:"model" mapstructure:"model"`             // e.g. "gemini-2.5-flash"
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"` // sampling temperature, 0-2
	Language    string        `yaml:"language" mapstructure:"language"`       // target source language
	APIKeyEnv   string        `yaml:"api_key_env" mapstructure:"api_key_env"` // env var holding the API key
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`         // per-record request timeout
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"` // parallel generation requests
}

// OutputConfig controls how records are printed.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "markdown", "json" or "yaml"
}

// StateConfig locates persisted generation run state.
type StateConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures `specgen serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			HeaderMode: "lenient",
		},
		Codegen: CodegenConfig{
			Provider:    "template",
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
			Language:    "python",
			APIKeyEnv:   "GEMINI_API_KEY",
			Timeout:     60 * time.Second,
			Concurrency: 4,
		},
		Output: OutputConfig{
			Format: "markdown",
		},
		State: StateConfig{
			Dir: ".specgen/run",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}
