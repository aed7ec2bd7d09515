package domain

import (
	"context"
	"time"
)

// AnswerLabels are the valid option labels for a multiple choice question.
var AnswerLabels = []string{"A", "B", "C", "D", "E"}

// Option is one labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// Question represents a single exam question. Questions are immutable from
// the sampler's point of view; they are seeded and mutated externally.
type Question struct {
	ID            string
	SubtestCode   SubtestCode
	Text          string
	Options       []Option
	CorrectAnswer string // option label, never sent to clients
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(subtest SubtestCode, text string, options []Option, correctAnswer string) *Question {
	now := time.Now()
	return &Question{
		SubtestCode:   subtest,
		Text:          text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the question
func (q *Question) Validate() error {
	if _, ok := SubtestByCode(q.SubtestCode); !ok {
		return NewInvalidSubtestError(string(q.SubtestCode))
	}
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("at least two options are required")
	}
	if q.CorrectAnswer == "" {
		return NewInvalidInputError("correct answer is required")
	}
	for _, opt := range q.Options {
		if opt.Label == q.CorrectAnswer {
			return nil
		}
	}
	return NewInvalidInputError("correct answer does not match any option label")
}

// QuestionRepository defines the interface for question persistence.
// The store itself is owned externally; this service only reads candidate
// pools and ground truth, and writes through the seed tool.
type QuestionRepository interface {
	// GetQuestionsBySubtest returns up to limit candidate questions for the
	// given subtest.
	GetQuestionsBySubtest(ctx context.Context, subtest SubtestCode, limit int) ([]*Question, error)

	// GetQuestionsByIDs returns the questions for the given IDs, including
	// their answer keys. Unknown IDs are silently absent from the result.
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]*Question, error)

	// SaveQuestion persists a new question
	SaveQuestion(ctx context.Context, question *Question) error
}
