package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/repository/models"
	"utbk-prep/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxSessionRepository implements domain.SessionRepository using sqlx.
type sqlxSessionRepository struct {
	db *sqlx.DB
}

// NewSQLXSessionRepository creates a new instance of sqlxSessionRepository.
func NewSQLXSessionRepository(db *sqlx.DB) domain.SessionRepository {
	return &sqlxSessionRepository{db: db}
}

func toDomainSession(m *models.AssessmentSession) *domain.AssessmentSession {
	if m == nil {
		return nil
	}
	var completedAt *time.Time
	if m.CompletedAt.Valid {
		completedAt = &m.CompletedAt.Time
	}
	return &domain.AssessmentSession{
		ID:           m.ID,
		UserID:       m.UserID,
		Mode:         domain.AssessmentMode(m.Mode),
		FocusSubtest: domain.SubtestCode(m.FocusSubtest.String),
		QuestionIDs:  m.QuestionIDs,
		StartedAt:    m.StartedAt,
		CompletedAt:  completedAt,
	}
}

// CreateSession inserts a new assessment session row.
func (r *sqlxSessionRepository) CreateSession(ctx context.Context, session *domain.AssessmentSession) error {
	m := &models.AssessmentSession{
		ID:           session.ID,
		UserID:       session.UserID,
		Mode:         string(session.Mode),
		FocusSubtest: util.StringToNullString(string(session.FocusSubtest)),
		QuestionIDs:  models.StringSlice(session.QuestionIDs),
		StartedAt:    session.StartedAt,
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = time.Now()
	}

	query := `INSERT INTO assessment_sessions (id, user_id, mode, focus_subtest, question_ids, started_at)
	          VALUES (:id, :user_id, :mode, :focus_subtest, :question_ids, :started_at)`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create assessment session: %w", err)
	}
	return nil
}

// GetSessionByID returns a session, or nil when no such session exists.
func (r *sqlxSessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.AssessmentSession, error) {
	query := `SELECT id, user_id, mode, focus_subtest, question_ids, started_at, completed_at
	          FROM assessment_sessions WHERE id = $1`

	var m models.AssessmentSession
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch assessment session %s: %w", id, err)
	}
	return toDomainSession(&m), nil
}

// MarkCompleted stamps a session's completion time.
func (r *sqlxSessionRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	query := `UPDATE assessment_sessions SET completed_at = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, completedAt, id); err != nil {
		return fmt.Errorf("failed to mark session %s completed: %w", id, err)
	}
	return nil
}
