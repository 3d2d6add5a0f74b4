package handler

import (
	"topic-quiz/internal/dto"
	"topic-quiz/internal/logger"
	"topic-quiz/internal/middleware"
	"topic-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates 15 multiple-choice questions about a topic: 5 Simple, 5 Moderate and 5 Difficult
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Quiz topic"
// @Success 200 {array} dto.QuizQuestionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	topic, ok := c.Locals(middleware.ValidatedTopicKey).(string)
	if !ok {
		// Route registered without ValidateGenerateQuiz.
		return fiber.NewError(fiber.StatusInternalServerError, "topic was not validated")
	}

	questions, err := h.service.GenerateQuiz(c.UserContext(), topic)
	if err != nil {
		return err // handled by middleware.ErrorHandler
	}
	if questions == nil {
		questions = []dto.QuizQuestionResponse{}
	}

	logger.Get().Debug("Quiz served",
		zap.String("topic", topic),
		zap.Int("questions", len(questions)),
	)
	return c.JSON(questions)
}
