package repository

import (
	"context"
	"fmt"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/repository/models"
	"utbk-prep/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxSubmissionRepository implements domain.SubmissionRepository using sqlx.
type sqlxSubmissionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubmissionRepository creates a new instance of sqlxSubmissionRepository.
func NewSQLXSubmissionRepository(db *sqlx.DB) domain.SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

func fromDomainSubmission(s *domain.Submission) *models.Submission {
	m := &models.Submission{
		ID:               s.ID,
		SessionID:        util.StringToNullString(s.SessionID),
		UserID:           s.UserID,
		QuestionID:       s.QuestionID,
		SubtestCode:      string(s.SubtestCode),
		SelectedAnswer:   util.StringToNullString(s.SelectedAnswer),
		IsCorrect:        s.IsCorrect,
		TimeSpentSeconds: s.TimeSpentSeconds,
		Mode:             string(s.Mode),
		FocusSubtest:     util.StringToNullString(string(s.FocusSubtest)),
		AnsweredAt:       s.AnsweredAt,
		CreatedAt:        s.CreatedAt,
	}
	if m.AnsweredAt.IsZero() {
		m.AnsweredAt = time.Now()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return m
}

func toDomainSubmission(m *models.Submission) *domain.Submission {
	if m == nil {
		return nil
	}
	return &domain.Submission{
		ID:               m.ID,
		SessionID:        m.SessionID.String,
		UserID:           m.UserID,
		QuestionID:       m.QuestionID,
		SubtestCode:      domain.SubtestCode(m.SubtestCode),
		SelectedAnswer:   m.SelectedAnswer.String,
		IsCorrect:        m.IsCorrect,
		TimeSpentSeconds: m.TimeSpentSeconds,
		Mode:             domain.AssessmentMode(m.Mode),
		FocusSubtest:     domain.SubtestCode(m.FocusSubtest.String),
		AnsweredAt:       m.AnsweredAt,
		CreatedAt:        m.CreatedAt,
	}
}

// SaveSubmissions persists one batch of submission rows. The insert is a
// single multi-row statement; atomicity beyond that comes from running it
// under the transaction manager.
func (r *sqlxSubmissionRepository) SaveSubmissions(ctx context.Context, submissions []*domain.Submission) error {
	if len(submissions) == 0 {
		return nil
	}

	modelSubmissions := make([]*models.Submission, len(submissions))
	for i, s := range submissions {
		modelSubmissions[i] = fromDomainSubmission(s)
	}

	query := `INSERT INTO submissions (id, session_id, user_id, question_id, subtest_code, selected_answer,
	                                   is_correct, time_spent_seconds, mode, focus_subtest, answered_at, created_at)
	          VALUES (:id, :session_id, :user_id, :question_id, :subtest_code, :selected_answer,
	                  :is_correct, :time_spent_seconds, :mode, :focus_subtest, :answered_at, :created_at)`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.NamedExecContext(ctx, query, modelSubmissions); err != nil {
		return fmt.Errorf("failed to save submissions: %w", err)
	}
	return nil
}

// GetSubmissionsBySessionID returns the persisted rows of one session in
// insertion order.
func (r *sqlxSubmissionRepository) GetSubmissionsBySessionID(ctx context.Context, sessionID string) ([]*domain.Submission, error) {
	query := `SELECT id, session_id, user_id, question_id, subtest_code, selected_answer,
	                 is_correct, time_spent_seconds, mode, focus_subtest, answered_at, created_at
	          FROM submissions WHERE session_id = $1 ORDER BY created_at, id`

	var modelSubmissions []models.Submission
	if err := r.db.SelectContext(ctx, &modelSubmissions, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for session %s: %w", sessionID, err)
	}

	submissions := make([]*domain.Submission, len(modelSubmissions))
	for i := range modelSubmissions {
		submissions[i] = toDomainSubmission(&modelSubmissions[i])
	}
	return submissions, nil
}
