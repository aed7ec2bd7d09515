package models

import "time"

// Question is the database model for the questions table.
type Question struct {
	ID            string     `db:"id"`
	SubtestCode   string     `db:"subtest_code"`
	QuestionText  string     `db:"question_text"`
	Options       OptionList `db:"options"`
	CorrectAnswer string     `db:"correct_answer"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Subtest is the database model for the subtests catalog table.
type Subtest struct {
	Code         string `db:"code"`
	Name         string `db:"name"`
	DisplayOrder int    `db:"display_order"`
}

func (Subtest) TableName() string {
	return "subtests"
}
