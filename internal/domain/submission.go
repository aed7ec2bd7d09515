package domain

import (
	"context"
	"time"
)

// Submission is one answered (or skipped) question of a completed session.
// A completed session persists exactly one row per drawn question.
type Submission struct {
	ID               string
	SessionID        string // empty for stateless submits
	UserID           string
	QuestionID       string
	SubtestCode      SubtestCode
	SelectedAnswer   string // option label, empty when unanswered
	IsCorrect        bool
	TimeSpentSeconds int
	Mode             AssessmentMode
	FocusSubtest     SubtestCode // empty unless focus mode
	AnsweredAt       time.Time
	CreatedAt        time.Time
}

// SubmissionRepository defines the interface for submission persistence.
type SubmissionRepository interface {
	// SaveSubmissions persists the whole batch; either all rows are written
	// or the call fails.
	SaveSubmissions(ctx context.Context, submissions []*Submission) error

	// GetSubmissionsBySessionID returns the persisted rows of one session.
	GetSubmissionsBySessionID(ctx context.Context, sessionID string) ([]*Submission, error)
}
