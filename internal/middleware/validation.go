package middleware

import (
	"errors"

	"topic-quiz/internal/domain"
	"topic-quiz/internal/dto"
	"topic-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedTopicKey is the Locals key holding the topic accepted by
// ValidateGenerateQuiz.
const ValidatedTopicKey = "validated_topic"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateGenerateQuiz parses the JSON body of a generate-quiz request and
// rejects it before any handler work when topic is missing or not a string.
func (vm *ValidationMiddleware) ValidateGenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			if errs, ok := asBodyError(err); ok {
				return errs
			}
			return vm.validator.BodyDecodeErrors(err)
		}

		if errs := vm.validator.ValidateGenerateQuizRequest(&req); len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}

		// Store validated value in context for handlers to use
		c.Locals(ValidatedTopicKey, *req.Topic)
		return c.Next()
	}
}

// asBodyError reports content-type rejections from BodyParser, which carry
// no decoding detail, as a missing body.
func asBodyError(err error) (domain.ValidationErrors, bool) {
	if errors.Is(err, fiber.ErrUnprocessableEntity) {
		return domain.ValidationErrors{
			domain.NewInvalidFormatError("body", "expected a JSON object"),
		}, true
	}
	return nil, false
}
