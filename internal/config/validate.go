// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	validProviders = []string{"template", "gemini"}
	validFormats   = []string{"markdown", "json", "yaml"}
)

// Validate reports every invalid field in cfg.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.Extract.HeaderMode {
	case "lenient", "signature":
	default:
		errs = append(errs, fmt.Errorf("extract.header_mode: unknown mode %q", cfg.Extract.HeaderMode))
	}

	c := cfg.Codegen
	if !slices.Contains(validProviders, c.Provider) {
		errs = append(errs, fmt.Errorf("codegen.provider: must be one of %v, got %q", validProviders, c.Provider))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("codegen.model: must not be empty"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("codegen.temperature: must be within [0, 2], got %v", c.Temperature))
	}
	if c.Language == "" {
		errs = append(errs, errors.New("codegen.language: must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("codegen.timeout: must be positive, got %s", c.Timeout))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("codegen.concurrency: must be positive, got %d", c.Concurrency))
	}

	if !slices.Contains(validFormats, cfg.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: must be one of %v, got %q", validFormats, cfg.Output.Format))
	}
	if cfg.State.Dir == "" {
		errs = append(errs, errors.New("state.dir: must not be empty"))
	}
	if cfg.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: must not be empty"))
	}

	return errors.Join(errs...)
}
