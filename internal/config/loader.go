// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SPECGEN_CODEGEN_MODEL.
const EnvPrefix = "SPECGEN"

// Loader loads configuration for a working directory.
type Loader struct {
	rootDir string
	file    string
}

// NewLoader creates a loader that searches rootDir/.specgen for config.yaml.
// A non-empty file overrides the search with an explicit path.
func NewLoader(rootDir, file string) *Loader {
	return &Loader{rootDir: rootDir, file: file}
}

// Load resolves configuration with the following priority (highest first):
// 1. Environment variables (SPECGEN_*)
// 2. Config file (.specgen/config.yaml or the explicit file)
// 3. Default values
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".specgen"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("extract.header_mode", d.Extract.HeaderMode)

	v.SetDefault("codegen.provider", d.Codegen.Provider)
	v.SetDefault("codegen.model", d.Codegen.Model)
	v.SetDefault("codegen.temperature", d.Codegen.Temperature)
	v.SetDefault("codegen.language", d.Codegen.Language)
	v.SetDefault("codegen.api_key_env", d.Codegen.APIKeyEnv)
	v.SetDefault("codegen.timeout", d.Codegen.Timeout)
	v.SetDefault("codegen.concurrency", d.Codegen.Concurrency)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("state.dir", d.State.Dir)
	v.SetDefault("server.addr", d.Server.Addr)
}
