package service

import (
	"context"
	"time"

	"topic-quiz/internal/cache"
	"topic-quiz/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 2

// TopicResult is the outcome of generating one topic in a batch.
type TopicResult struct {
	Topic     string                     `json:"topic"`
	Questions []dto.QuizQuestionResponse `json:"questions,omitempty"`
	Error     string                     `json:"error,omitempty"`
}

// BatchReport summarizes a batch run. Results keep the input order.
type BatchReport struct {
	Results   []TopicResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// BatchService generates quizzes for many topics through a QuizService, which
// also fills the response cache when it is enabled.
type BatchService struct {
	quizService QuizService
	concurrency int
	logger      *zap.Logger
}

// NewBatchService creates a BatchService. Non-positive concurrency falls back
// to a small default.
func NewBatchService(quizService QuizService, concurrency int, logger *zap.Logger) *BatchService {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		quizService: quizService,
		concurrency: concurrency,
		logger:      logger,
	}
}

// GenerateTopics runs every distinct topic once. A failing topic is recorded
// and the batch moves on; only cancellation of ctx stops the remaining work.
func (s *BatchService) GenerateTopics(ctx context.Context, topics []string) BatchReport {
	topics = DedupeTopics(topics)
	start := time.Now()
	s.logger.Info("Starting batch quiz generation",
		zap.Int("topics", len(topics)),
		zap.Int("concurrency", s.concurrency),
	)

	results := make([]TopicResult, len(topics))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, topic := range topics {
		g.Go(func() error {
			results[i] = s.generateOne(ctx, topic)
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{Results: results}
	for _, r := range results {
		if r.Error != "" {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}

	s.logger.Info("Batch quiz generation completed",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return report
}

func (s *BatchService) generateOne(ctx context.Context, topic string) TopicResult {
	if err := ctx.Err(); err != nil {
		return TopicResult{Topic: topic, Error: err.Error()}
	}

	questions, err := s.quizService.GenerateQuiz(ctx, topic)
	if err != nil {
		s.logger.Error("Failed to generate quiz for topic", zap.String("topic", topic), zap.Error(err))
		return TopicResult{Topic: topic, Error: err.Error()}
	}

	s.logger.Info("Generated quiz for topic", zap.String("topic", topic), zap.Int("questions", len(questions)))
	return TopicResult{Topic: topic, Questions: questions}
}

// DedupeTopics drops blank topics and topics that share a cache key with an
// earlier one, keeping first occurrences in order.
func DedupeTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		key := cache.NormalizeTopic(topic)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, topic)
	}
	return out
}
