package validation

import (
	"encoding/json"
	"errors"

	"topic-quiz/internal/domain"
	"topic-quiz/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest validates the generate quiz request. The topic
// must be present; any string, including "", is accepted.
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req == nil || req.Topic == nil {
		errs = append(errs, domain.NewMissingFieldError("topic"))
	}

	return errs
}

// BodyDecodeErrors turns a JSON decoding failure into validation errors so
// that malformed bodies are reported the same way as invalid fields.
func (v *Validator) BodyDecodeErrors(err error) domain.ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return domain.ValidationErrors{
			domain.NewInvalidFormatError(field, "expected "+typeErr.Type.String()+", got "+typeErr.Value),
		}
	}
	return domain.ValidationErrors{
		domain.NewInvalidFormatError("body", err.Error()),
	}
}
