// SPDX-License-Identifier: AGPL-3.0-or-later

package codegen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/bartekus/specgen/pkg/spec"
)

// contentModels is the slice of *genai.Models the generator calls.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOptions configures a GeminiGenerator.
type GeminiOptions struct {
	Model       string
	Temperature float32
	Language    string
	Timeout     time.Duration
}

// GeminiGenerator generates code with Google's Gemini API.
type GeminiGenerator struct {
	models contentModels
	opts   GeminiOptions
	logger *zap.Logger
}

// NewGeminiGenerator creates a generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts GeminiOptions, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGeminiGenerator(client.Models, opts, logger), nil
}

func newGeminiGenerator(models contentModels, opts GeminiOptions, logger *zap.Logger) *GeminiGenerator {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.Language == "" {
		opts.Language = "python"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGenerator{models: models, opts: opts, logger: logger}
}

// Generate sends the record's prompt and returns the code from the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, rec spec.Record) (string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(rec, g.opts.Language)
	g.logger.Debug("codegen: sending generation request",
		zap.String("record", rec.Name),
		zap.String("model", g.opts.Model),
		zap.Int("prompt_bytes", len(prompt)))

	resp, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.opts.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate %s: %w", rec.Name, err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	code := StripFences(resp.Text())
	if code == "" {
		return "", ErrEmptyResponse
	}
	return code, nil
}

// Name identifies the provider and model.
func (g *GeminiGenerator) Name() string {
	return "gemini:" + g.opts.Model
}
