// SPDX-License-Identifier: AGPL-3.0-or-later

// Package codegen turns a spec.Record into generated source text.
//
// Generation is a one-record-in, one-text-or-error-out operation. Requests for
// different records are independent of one another.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/bartekus/specgen/internal/config"
	"github.com/bartekus/specgen/pkg/spec"
)

var (
	// ErrMissingAPIKey is returned when a remote provider has no credentials.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrEmptyResponse is returned when a provider answers with no text.
	ErrEmptyResponse = errors.New("empty response from code generation service")
	// ErrUnsupportedLanguage is returned by providers that cannot target a language.
	ErrUnsupportedLanguage = errors.New("unsupported target language")
)

// Generator produces source code implementing a record.
type Generator interface {
	Generate(ctx context.Context, rec spec.Record) (string, error)
	Name() string
}

// New selects the provider named in cfg.
func New(ctx context.Context, cfg config.CodegenConfig, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "template":
		logger.Debug("codegen: template provider selected", zap.String("language", cfg.Language))
		return NewTemplateGenerator(cfg.Language)
	case "gemini":
		apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
		if apiKey == "" {
			return nil, fmt.Errorf("%w: set %s or use provider \"template\"", ErrMissingAPIKey, cfg.APIKeyEnv)
		}
		gen, err := NewGeminiGenerator(ctx, apiKey, GeminiOptions{
			Model:       cfg.Model,
			Temperature: float32(cfg.Temperature),
			Language:    cfg.Language,
			Timeout:     cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("codegen: gemini provider selected", zap.String("model", cfg.Model))
		return gen, nil
	default:
		return nil, fmt.Errorf("unknown code generation provider %q", cfg.Provider)
	}
}

// StripFences removes a surrounding Markdown code fence from model output.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
