package lesson

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/use-agent/studyhub/llm"
	"github.com/use-agent/studyhub/models"
)

// ErrEmptyText is returned when an experiment is requested without text.
var ErrEmptyText = errors.New("lesson: experiment text is required")

const experimentInstruction = `You are an API that sends JSON response. Imagine you are also a teacher and you are preparing an experiment that contains 3 parts: aim, introduction, and a short note on the theory of the experiment.
The aim should be short and concise, 25 words at maximum. The introduction should be brief, giving insight into the experiment, 75 words at maximum.
The article should explain the theory behind the experiment, it should be at least 200 words but can be more depending on the given theory.
Return all three parts in the following JSON format without any additional text:
{
  "aim": "the aim of your experiment",
  "introduction": "a brief introduction to the experiment",
  "article": "theory of the experiment"
}`

type rawExperiment struct {
	Aim          string `json:"aim" validate:"required"`
	Introduction string `json:"introduction" validate:"required"`
	Article      string `json:"article" validate:"required"`
}

// GenerateExperiment asks the model for an experiment write-up about text.
// Every returned string has its whitespace collapsed.
func (s *Service) GenerateExperiment(ctx context.Context, text string) (*models.Experiment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	out, err := s.gen.Generate(ctx, llm.Request{
		System: experimentInstruction,
		Prompt: text,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	exp, err := s.decodeExperiment(out)
	if err != nil {
		slog.Warn("experiment output rejected", "error", err)
		return nil, &DecodeError{Kind: "experiment", Raw: out, Err: err}
	}
	return exp, nil
}

func (s *Service) decodeExperiment(out string) (*models.Experiment, error) {
	var raw rawExperiment
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &raw); err != nil {
		return nil, err
	}
	raw.Aim = collapseSpace(raw.Aim)
	raw.Introduction = collapseSpace(raw.Introduction)
	raw.Article = collapseSpace(raw.Article)
	if err := s.validate.Struct(raw); err != nil {
		return nil, err
	}
	return &models.Experiment{
		Aim:          raw.Aim,
		Introduction: raw.Introduction,
		Article:      raw.Article,
	}, nil
}
