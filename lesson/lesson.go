// Package lesson generates study material (multiple-choice quizzes and lab
// experiment write-ups) with an LLM and decodes the model output into
// validated, typed values.
package lesson

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/use-agent/studyhub/llm"
)

// DecodeError reports model output that could not be decoded into the
// expected shape. Raw holds the unmodified model output.
type DecodeError struct {
	Kind string // "quiz" or "experiment"
	Raw  string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("lesson: decode %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Service builds prompts, calls the generator and decodes the results.
type Service struct {
	gen      llm.Generator
	validate *validator.Validate
}

func NewService(gen llm.Generator) *Service {
	return &Service{
		gen:      gen,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Provider names the backing generator.
func (s *Service) Provider() string {
	if s.gen == nil {
		return ""
	}
	return s.gen.Name()
}

// collapseSpace trims s and folds every run of whitespace into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
