package models

import (
	"database/sql"
	"time"
)

// AssessmentSession is the database model for the assessment_sessions table.
type AssessmentSession struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	Mode         string         `db:"mode"`
	FocusSubtest sql.NullString `db:"focus_subtest"`
	QuestionIDs  StringSlice    `db:"question_ids"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}
