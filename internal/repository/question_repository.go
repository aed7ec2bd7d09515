package repository

import (
	"context"
	"fmt"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxQuestionRepository implements domain.QuestionRepository using sqlx.
type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	options := make([]domain.Option, len(m.Options))
	for i, opt := range m.Options {
		options[i] = domain.Option{Label: opt.Label, Text: opt.Text}
	}
	return &domain.Question{
		ID:            m.ID,
		SubtestCode:   domain.SubtestCode(m.SubtestCode),
		Text:          m.QuestionText,
		Options:       options,
		CorrectAnswer: m.CorrectAnswer,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	options := make(models.OptionList, len(q.Options))
	for i, opt := range q.Options {
		options[i] = models.Option{Label: opt.Label, Text: opt.Text}
	}
	return &models.Question{
		ID:            q.ID,
		SubtestCode:   string(q.SubtestCode),
		QuestionText:  q.Text,
		Options:       options,
		CorrectAnswer: q.CorrectAnswer,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// GetQuestionsBySubtest returns up to limit candidate questions for a subtest.
func (r *sqlxQuestionRepository) GetQuestionsBySubtest(ctx context.Context, subtest domain.SubtestCode, limit int) ([]*domain.Question, error) {
	query := `SELECT id, subtest_code, question_text, options, correct_answer, created_at, updated_at
	          FROM questions
	          WHERE subtest_code = $1
	          ORDER BY id
	          LIMIT $2`

	var modelQuestions []models.Question
	if err := r.db.SelectContext(ctx, &modelQuestions, query, string(subtest), limit); err != nil {
		return nil, fmt.Errorf("failed to fetch questions for subtest %s: %w", subtest, err)
	}

	questions := make([]*domain.Question, len(modelQuestions))
	for i := range modelQuestions {
		questions[i] = toDomainQuestion(&modelQuestions[i])
	}
	return questions, nil
}

// GetQuestionsByIDs returns the questions for the given IDs, answer keys
// included. Unknown IDs are simply absent from the result.
func (r *sqlxQuestionRepository) GetQuestionsByIDs(ctx context.Context, ids []string) ([]*domain.Question, error) {
	if len(ids) == 0 {
		return []*domain.Question{}, nil
	}

	query, args, err := sqlx.In(`SELECT id, subtest_code, question_text, options, correct_answer, created_at, updated_at
	                             FROM questions WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build question lookup query: %w", err)
	}
	query = r.db.Rebind(query)

	var modelQuestions []models.Question
	if err := r.db.SelectContext(ctx, &modelQuestions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch questions by ids: %w", err)
	}

	questions := make([]*domain.Question, len(modelQuestions))
	for i := range modelQuestions {
		questions[i] = toDomainQuestion(&modelQuestions[i])
	}
	return questions, nil
}

// SaveQuestion persists a new question.
func (r *sqlxQuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	m := fromDomainQuestion(question)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()

	query := `INSERT INTO questions (id, subtest_code, question_text, options, correct_answer, created_at, updated_at)
	          VALUES (:id, :subtest_code, :question_text, :options, :correct_answer, :created_at, :updated_at)`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}
