// Package llm provides text generation backends behind a single
// Generator interface.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/use-agent/studyhub/config"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Request is one prompt sent to a Generator.
type Request struct {
	// System is an optional system instruction.
	System string
	// Prompt is the user prompt.
	Prompt string
	// JSON asks the backend for a JSON-only response where supported.
	JSON bool
}

// Generator produces a completion for a prompt. Implementations are safe
// for concurrent use.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: no API key configured (set GEMINI_API_KEY or STUDYHUB_LLM_API_KEY)")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		return NewGemini(ctx, GeminiParams{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case ProviderOpenAI:
		return NewOpenAI(nil, OpenAIParams{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// StripFences removes a surrounding Markdown code fence (``` or ```json)
// from model output. Text without a fence is returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		if info := strings.TrimSpace(s[:i]); !strings.ContainsAny(info, "{[\"") {
			s = s[i+1:]
		}
	} else {
		s = strings.TrimLeft(s, "jsonJSON")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
