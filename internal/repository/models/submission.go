package models

import (
	"database/sql"
	"time"
)

// Submission is the database model for the submissions table.
type Submission struct {
	ID               string         `db:"id"`
	SessionID        sql.NullString `db:"session_id"`
	UserID           string         `db:"user_id"`
	QuestionID       string         `db:"question_id"`
	SubtestCode      string         `db:"subtest_code"`
	SelectedAnswer   sql.NullString `db:"selected_answer"`
	IsCorrect        bool           `db:"is_correct"`
	TimeSpentSeconds int            `db:"time_spent_seconds"`
	Mode             string         `db:"mode"`
	FocusSubtest     sql.NullString `db:"focus_subtest"`
	AnsweredAt       time.Time      `db:"answered_at"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
