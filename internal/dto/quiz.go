package dto

import "topic-quiz/internal/domain"

// GenerateQuizRequest is the body of POST /api/generate-quiz.
// Topic is a pointer so that a missing field can be told apart from "".
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic *string `json:"topic" example:"Roman History"`
}

// QuizQuestionResponse is a single question in the API response
// @Description Multiple-choice question
type QuizQuestionResponse struct {
	Question   string   `json:"question" example:"Who was the first Roman emperor?"`
	Options    []string `json:"options" example:"Augustus,Nero,Caligula,Trajan"`
	Answer     string   `json:"answer" example:"Augustus"`
	Difficulty string   `json:"difficulty" example:"Simple"`
}

// NewQuizQuestionResponses converts domain questions for the API. The result
// is never nil so that an empty quiz encodes as [].
func NewQuizQuestionResponses(questions []domain.QuizQuestion) []QuizQuestionResponse {
	out := make([]QuizQuestionResponse, 0, len(questions))
	for _, q := range questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		out = append(out, QuizQuestionResponse{
			Question:   q.Question,
			Options:    options,
			Answer:     q.Answer,
			Difficulty: q.Difficulty,
		})
	}
	return out
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Cache  string `json:"cache,omitempty" example:"ok"`
}

// ErrorResponse represents an error in the API response
// @Description Error detail
type ErrorResponse struct {
	Detail string `json:"detail"`
}
