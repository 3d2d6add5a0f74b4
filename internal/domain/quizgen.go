package domain

import (
	"context"
)

// QuizGenerator produces multiple-choice questions for a free-text topic.
type QuizGenerator interface {
	// GenerateQuiz returns the questions in the order the model produced them.
	// Every returned question satisfies HasValidAnswer. Failures are returned
	// as *DomainError.
	GenerateQuiz(ctx context.Context, topic string) ([]QuizQuestion, error)
}
