package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/use-agent/studyhub/models"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiParams configures a Gemini generator.
type GeminiParams struct {
	APIKey  string
	Model   string
	BaseURL string // optional endpoint override
	Timeout time.Duration
}

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini generator. The key is never read from the
// environment here; callers pass it explicitly.
func NewGemini(ctx context.Context, p GeminiParams) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}

	model := p.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model, timeout: p.Timeout}, nil
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
		// Only the first candidate with content is used.
		if text.Len() > 0 {
			break
		}
	}

	if text.Len() == 0 {
		return "", models.NewAPIError(models.ErrCodeLLMFailure, "LLM returned no content", nil)
	}
	return text.String(), nil
}

// classifyGeminiError maps upstream 429s to a rate-limit error; everything
// else is an LLM failure.
func classifyGeminiError(err error) *models.APIError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return models.NewAPIError(models.ErrCodeRateLimited, "LLM rate limited: "+apiErr.Message, err)
		}
		return models.NewAPIError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", apiErr.Code, apiErr.Message), err)
	}
	return models.NewAPIError(models.ErrCodeLLMFailure, "LLM request failed", err)
}
