package dto

// StartAssessmentRequest is the request body for starting a session.
// SubtestCode is required only for focus mode.
// @Description Request body for starting an assessment session
type StartAssessmentRequest struct {
	UserID      string `json:"user_id,omitempty"`
	SubtestCode string `json:"subtest_code,omitempty"`
}

// OptionResponse is one answer choice, without any correctness hint.
type OptionResponse struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuestionResponse is a question as sent to clients. The answer key is
// stripped before this DTO is built.
// @Description Question without its answer key
type QuestionResponse struct {
	ID                 string           `json:"id"`
	SubtestCode        string           `json:"subtest_code"`
	Text               string           `json:"text"`
	Options            []OptionResponse `json:"options"`
	RecommendedMinutes int              `json:"recommended_minutes,omitempty"`
}

// SubtestBreakdown is the per-subtest metadata of an assembled session.
type SubtestBreakdown struct {
	SubtestCode        string `json:"subtest_code"`
	Name               string `json:"name"`
	DisplayOrder       int    `json:"display_order"`
	QuestionCount      int    `json:"question_count"`
	RecommendedMinutes int    `json:"recommended_minutes,omitempty"`
}

// StartAssessmentResponse is the assembled question set returned to the
// caller at session start.
type StartAssessmentResponse struct {
	SessionID        string             `json:"session_id,omitempty"`
	Mode             string             `json:"mode"`
	TotalQuestions   int                `json:"total_questions"`
	Questions        []QuestionResponse `json:"questions"`
	SubtestBreakdown []SubtestBreakdown `json:"subtest_breakdown"`
}

// SubmittedQuestion is one question reference in a submit request.
type SubmittedQuestion struct {
	ID string `json:"id"`
}

// SubmitAssessmentRequest is the request body for scoring a finished
// session. Answers maps the question position (as a decimal string) to the
// selected option label; unanswered positions may be omitted.
// @Description Request body for submitting assessment answers
type SubmitAssessmentRequest struct {
	UserID           string              `json:"user_id"`
	SessionID        string              `json:"session_id,omitempty"`
	SubtestCode      string              `json:"subtest_code,omitempty"`
	Questions        []SubmittedQuestion `json:"questions"`
	Answers          map[string]string   `json:"answers"`
	TotalTimeSeconds int                 `json:"total_time_seconds"`
	SubtestTimes     map[string]int      `json:"subtest_times,omitempty"`
}

// SubtestResult is the per-subtest aggregate of a scored submission.
type SubtestResult struct {
	SubtestCode string `json:"subtest_code"`
	Name        string `json:"name"`
	Correct     int    `json:"correct"`
	Total       int    `json:"total"`
	Accuracy    int    `json:"accuracy"`
	Pacing      string `json:"pacing,omitempty"` // faster | on-time | slower, full try-out only
}

// RewardsResponse reports the ledger credits applied for this submission.
type RewardsResponse struct {
	Coins int64 `json:"coins"`
	XP    int64 `json:"xp"`
}

// SubmitAssessmentResponse is the score report returned after submission.
type SubmitAssessmentResponse struct {
	SessionID      string           `json:"session_id,omitempty"`
	TotalQuestions int              `json:"total_questions"`
	TotalCorrect   int              `json:"total_correct"`
	Accuracy       int              `json:"accuracy"`
	SubtestResults []SubtestResult  `json:"subtest_results"`
	Strongest      string           `json:"strongest"`
	Weakest        string           `json:"weakest"`
	Rewards        *RewardsResponse `json:"rewards,omitempty"`
}

// SubtestResponse is one catalog entry.
type SubtestResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// SessionResponse is the stored metadata of one assessment session.
type SessionResponse struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Mode         string   `json:"mode"`
	FocusSubtest string   `json:"focus_subtest,omitempty"`
	QuestionIDs  []string `json:"question_ids"`
	StartedAt    string   `json:"started_at"`
	CompletedAt  string   `json:"completed_at,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
