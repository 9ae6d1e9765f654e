// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	cfgDir := filepath.Join(dir, ".specgen")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	path := filepath.Join(cfgDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "lenient", cfg.Extract.HeaderMode)
	assert.Equal(t, "template", cfg.Codegen.Provider)
	assert.Equal(t, 0.2, cfg.Codegen.Temperature)
	assert.Equal(t, 60*time.Second, cfg.Codegen.Timeout)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, ".specgen/run", cfg.State.Dir)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader(t.TempDir(), "").Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
extract:
  header_mode: signature
codegen:
  provider: gemini
  timeout: 15s
output:
  format: yaml
`)

	cfg, err := NewLoader(dir, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "signature", cfg.Extract.HeaderMode)
	assert.Equal(t, "gemini", cfg.Codegen.Provider)
	assert.Equal(t, 15*time.Second, cfg.Codegen.Timeout)
	assert.Equal(t, "yaml", cfg.Output.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, "python", cfg.Codegen.Language)
	assert.Equal(t, 4, cfg.Codegen.Concurrency)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "codegen:\n  model: from-file\n")
	t.Setenv("SPECGEN_CODEGEN_MODEL", "from-env")
	t.Setenv("SPECGEN_CODEGEN_CONCURRENCY", "9")

	cfg, err := NewLoader(dir, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Codegen.Model)
	assert.Equal(t, 9, cfg.Codegen.Concurrency)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 0.0.0.0:9000\n"), 0o644))

	cfg, err := NewLoader(t.TempDir(), path).Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)

	_, err = NewLoader(dir, filepath.Join(dir, "missing.yaml")).Load()
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "codegen: [unclosed\n")

	_, err := NewLoader(dir, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "output:\n  format: html\n")

	_, err := NewLoader(dir, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Extract.HeaderMode = "strict"
	cfg.Codegen.Provider = "openai"
	cfg.Codegen.Temperature = 3
	cfg.Codegen.Concurrency = 0
	cfg.Codegen.Timeout = 0

	err := Validate(cfg)
	require.Error(t, err)
	for _, field := range []string{
		"extract.header_mode",
		"codegen.provider",
		"codegen.temperature",
		"codegen.concurrency",
		"codegen.timeout",
	} {
		assert.Contains(t, err.Error(), field)
	}
}
