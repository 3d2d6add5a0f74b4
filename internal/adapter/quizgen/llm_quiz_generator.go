package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"topic-quiz/internal/domain"
	"topic-quiz/internal/llm"

	"go.uber.org/zap"
)

// QuizSchema is the structured-output schema for a quiz: an array of
// question objects, each requiring all four fields.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A list of multiple-choice quiz questions",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"answer":     map[string]any{"type": "string"},
				"difficulty": map[string]any{"type": "string"},
			},
			"required": []any{"question", "options", "answer", "difficulty"},
		},
	},
}

// BuildQuizPrompt returns the instruction sent to the model for a topic.
// The topic is embedded verbatim between double quotes.
func BuildQuizPrompt(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a total of %d multiple-choice questions about \"%s\".\n",
		domain.TotalQuestions(), topic)
	fmt.Fprintf(&b, "The questions must be structured into three difficulty levels: %d %s, %d %s, and %d %s.\n",
		domain.QuestionsPerDifficulty, domain.DifficultySimple,
		domain.QuestionsPerDifficulty, domain.DifficultyModerate,
		domain.QuestionsPerDifficulty, domain.DifficultyDifficult)
	b.WriteString("For each question, provide:\n")
	b.WriteString("1. The question text.\n")
	fmt.Fprintf(&b, "2. An array of %d multiple-choice options.\n", domain.OptionsPerQuestion)
	b.WriteString("3. The correct answer, which must be one of the options.\n")
	return b.String()
}

// LLMQuizGenerator implements domain.QuizGenerator on top of an llm.Provider.
type LLMQuizGenerator struct {
	provider  llm.Provider
	timeout   time.Duration
	maxTokens int
	logger    *zap.Logger
}

// NewLLMQuizGenerator creates a generator. A zero timeout leaves the call
// bounded only by the caller's context.
func NewLLMQuizGenerator(provider llm.Provider, timeout time.Duration, maxTokens int, logger *zap.Logger) (*LLMQuizGenerator, error) {
	if provider == nil {
		return nil, fmt.Errorf("LLM provider cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Initializing LLMQuizGenerator", zap.String("model", provider.ModelID()))
	return &LLMQuizGenerator{
		provider:  provider,
		timeout:   timeout,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// GenerateQuiz asks the model for a quiz about topic and returns the
// questions in upstream order with every answer repaired into its options.
func (g *LLMQuizGenerator) GenerateQuiz(ctx context.Context, topic string) ([]domain.QuizQuestion, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Debug("Generating quiz", zap.String("topic", topic))

	resp, err := g.provider.Generate(ctx, llm.Request{
		Prompt:    BuildQuizPrompt(topic),
		Schema:    QuizSchema,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		var invErr *llm.ErrInvalidResponse
		if errors.As(err, &invErr) {
			return nil, domain.NewLLMParseError(err).WithContext("topic", topic)
		}
		return nil, domain.NewLLMServiceError(err).WithContext("topic", topic)
	}

	questions, err := decodeQuestions(resp.Payload)
	if err != nil {
		return nil, domain.NewLLMParseError(err).WithContext("topic", topic)
	}

	domain.RepairAnswers(questions)

	g.logger.Info("Quiz generated",
		zap.String("topic", topic),
		zap.Int("questions", len(questions)),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return questions, nil
}

// decodeQuestions resolves the payload into question records. A JSON null
// decodes to an empty list.
func decodeQuestions(p llm.Payload) ([]domain.QuizQuestion, error) {
	raw, err := p.Bytes()
	if err != nil {
		return nil, err
	}
	var questions []domain.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if questions == nil {
		questions = []domain.QuizQuestion{}
	}
	return questions, nil
}

var _ domain.QuizGenerator = (*LLMQuizGenerator)(nil)
