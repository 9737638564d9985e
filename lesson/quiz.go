package lesson

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/use-agent/studyhub/llm"
	"github.com/use-agent/studyhub/models"
)

// DefaultTopic is used when a quiz is requested without a topic.
const DefaultTopic = "general knowledge"

const quizInstruction = `You are an API that sends JSON response. Imagine you are also a teacher and you are preparing a set of MCQs on the topic "%s" with a minimum of 10 questions and a maximum of 15 questions.
Each question should have an ID, question text, and options as an array of objects where each option has a key "option" and a value representing the choice.
Please ensure to include at max 3 HARD questions and rest mostly keep EASY and MEDIUM. Return the questions and options in the following JSON format without any additional text:
{
  "questions": [
    {
      "id": 1,
      "question": "Your question here",
      "options": [
        {"option": "Option A"},
        {"option": "Option B"},
        {"option": "Option C"},
        {"option": "Option D"}
      ],
      "answer": "Correct option text",
      "difficulty": "question difficulty here EASY | MEDIUM | HARD"
    }
  ]
}`

// rawQuiz is the shape the model is asked to produce.
type rawQuiz struct {
	Questions []rawQuestion `json:"questions" validate:"required,min=1,dive"`
}

type rawQuestion struct {
	ID         int         `json:"id" validate:"gte=0"`
	Question   string      `json:"question" validate:"required"`
	Options    []rawOption `json:"options" validate:"required,min=2,dive"`
	Answer     string      `json:"answer" validate:"required"`
	Difficulty string      `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
}

type rawOption struct {
	Option string `json:"option" validate:"required"`
}

// GenerateQuiz asks the model for multiple-choice questions about topic.
// An LLM failure is returned as is; output that does not decode is
// returned as a *DecodeError.
func (s *Service) GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}

	out, err := s.gen.Generate(ctx, llm.Request{
		System: fmt.Sprintf(quizInstruction, topic),
		Prompt: "Generate MCQs for " + topic,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	quiz, err := s.decodeQuiz(out)
	if err != nil {
		slog.Warn("quiz output rejected", "topic", topic, "error", err)
		return nil, &DecodeError{Kind: "quiz", Raw: out, Err: err}
	}

	slog.Debug("quiz generated", "topic", topic, "questions", quiz.TotalQuestions)
	return quiz, nil
}

func (s *Service) decodeQuiz(out string) (*models.Quiz, error) {
	var raw rawQuiz
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &raw); err != nil {
		return nil, err
	}
	for i := range raw.Questions {
		raw.Questions[i].Difficulty = strings.ToUpper(strings.TrimSpace(raw.Questions[i].Difficulty))
	}
	if err := s.validate.Struct(raw); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		TotalQuestions: len(raw.Questions),
		Questions:      make([]models.Question, 0, len(raw.Questions)),
	}
	for _, q := range raw.Questions {
		options := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, o.Option)
		}
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:            q.ID,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.Answer,
			Difficulty:    q.Difficulty,
		})
	}
	return quiz, nil
}
