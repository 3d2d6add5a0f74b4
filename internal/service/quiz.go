package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"topic-quiz/internal/cache"
	"topic-quiz/internal/config"
	"topic-quiz/internal/domain"
	"topic-quiz/internal/dto"
	"topic-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultQuizCacheTTL = time.Hour

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, topic string) ([]dto.QuizQuestionResponse, error)
}

// quizService implements QuizService
type quizService struct {
	generator domain.QuizGenerator
	cache     domain.Cache // nil disables caching
	ttl       time.Duration
	sfGroup   singleflight.Group
}

// NewQuizService creates a new instance of quizService. The result cache is
// used only when cacheCfg.Enabled is set and resultCache is non-nil.
func NewQuizService(generator domain.QuizGenerator, resultCache domain.Cache, cacheCfg config.CacheConfig) QuizService {
	s := &quizService{generator: generator}
	if cacheCfg.Enabled && resultCache != nil {
		s.cache = resultCache
		s.ttl = cacheCfg.TTL
		if s.ttl <= 0 {
			s.ttl = defaultQuizCacheTTL
		}
	}
	return s
}

// GenerateQuiz implements QuizService
func (s *quizService) GenerateQuiz(ctx context.Context, topic string) ([]dto.QuizQuestionResponse, error) {
	if s.cache == nil {
		return s.generate(ctx, topic)
	}

	cacheKey := cache.QuizTopicKey(topic)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		return cached, nil
	}

	// The shared call runs detached from the leader's context so that a
	// caller that goes away does not fail everyone waiting on the same key.
	ch := s.sfGroup.DoChan(cacheKey, func() (interface{}, error) {
		genCtx := context.WithoutCancel(ctx)
		questions, genErr := s.generate(genCtx, topic)
		if genErr != nil {
			return nil, genErr
		}
		s.writeCache(genCtx, cacheKey, questions)
		return questions, nil
	})

	select {
	case <-ctx.Done():
		return nil, domain.NewLLMServiceError(ctx.Err()).WithContext("topic", topic)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Get().Debug("QuizService: shared in-flight generation", zap.String("key", cacheKey))
		}
		if questions, ok := res.Val.([]dto.QuizQuestionResponse); ok {
			return questions, nil
		}
		return nil, domain.NewInternalError("Failed to generate quiz",
			fmt.Errorf("unexpected type from singleflight.DoChan: %T", res.Val))
	}
}

func (s *quizService) generate(ctx context.Context, topic string) ([]dto.QuizQuestionResponse, error) {
	questions, err := s.generator.GenerateQuiz(ctx, topic)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}
	return dto.NewQuizQuestionResponses(questions), nil
}

// readCache returns a cached quiz. Any failure is logged and treated as a miss.
func (s *quizService) readCache(ctx context.Context, key string) ([]dto.QuizQuestionResponse, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("QuizService: cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil, false
	}

	var questions []dto.QuizQuestionResponse
	if err := json.Unmarshal([]byte(raw), &questions); err != nil || questions == nil {
		logger.Get().Warn("QuizService: discarding unreadable cache entry", zap.Error(err), zap.String("key", key))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			logger.Get().Warn("QuizService: cache delete failed", zap.Error(delErr), zap.String("key", key))
		}
		return nil, false
	}

	logger.Get().Debug("QuizService: cache hit", zap.String("key", key))
	return questions, true
}

func (s *quizService) writeCache(ctx context.Context, key string, questions []dto.QuizQuestionResponse) {
	raw, err := json.Marshal(questions)
	if err != nil {
		logger.Get().Warn("QuizService: cache encode failed", zap.Error(err), zap.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		logger.Get().Warn("QuizService: cache write failed", zap.Error(err), zap.String("key", key))
	}
}
