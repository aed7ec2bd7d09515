package domain

import (
	"context"
	"time"
)

// AssessmentMode identifies one of the supported session configurations.
type AssessmentMode string

const (
	ModeBalancedDaily AssessmentMode = "balanced-daily"
	ModeFocusDaily    AssessmentMode = "focus-daily"
	ModeMiniTryout    AssessmentMode = "mini-tryout"
	ModeFullTryout    AssessmentMode = "full-tryout"
)

// IsValidMode reports whether mode names a known session configuration.
func IsValidMode(mode string) bool {
	switch AssessmentMode(mode) {
	case ModeBalancedDaily, ModeFocusDaily, ModeMiniTryout, ModeFullTryout:
		return true
	}
	return false
}

// SubtestQuota is the per-subtest slice of a session configuration.
type SubtestQuota struct {
	Subtest            SubtestCode
	QuestionCount      int
	RecommendedMinutes int
}

// SessionConfig is the compiled-in configuration of one assessment mode.
// For focus mode Quotas is empty and FocusQuestionCount carries the draw
// size for the caller-chosen subtest.
type SessionConfig struct {
	Mode               AssessmentMode
	TotalQuestions     int
	Quotas             []SubtestQuota
	FocusQuestionCount int
}

// sessionConfigs holds the static configuration table. Quotas are listed in
// subtest display order; per-mode totals must equal the quota sums.
var sessionConfigs = map[AssessmentMode]SessionConfig{
	ModeBalancedDaily: {
		Mode:           ModeBalancedDaily,
		TotalQuestions: 21,
		Quotas: []SubtestQuota{
			{Subtest: SubtestPU, QuestionCount: 3, RecommendedMinutes: 4},
			{Subtest: SubtestPPU, QuestionCount: 3, RecommendedMinutes: 3},
			{Subtest: SubtestPBM, QuestionCount: 3, RecommendedMinutes: 4},
			{Subtest: SubtestPK, QuestionCount: 3, RecommendedMinutes: 4},
			{Subtest: SubtestLitIndo, QuestionCount: 3, RecommendedMinutes: 5},
			{Subtest: SubtestLitIng, QuestionCount: 3, RecommendedMinutes: 5},
			{Subtest: SubtestPM, QuestionCount: 3, RecommendedMinutes: 5},
		},
	},
	ModeFocusDaily: {
		Mode:               ModeFocusDaily,
		TotalQuestions:     10,
		FocusQuestionCount: 10,
	},
	ModeMiniTryout: {
		Mode:           ModeMiniTryout,
		TotalQuestions: 70,
		Quotas: []SubtestQuota{
			{Subtest: SubtestPU, QuestionCount: 10, RecommendedMinutes: 12},
			{Subtest: SubtestPPU, QuestionCount: 10, RecommendedMinutes: 8},
			{Subtest: SubtestPBM, QuestionCount: 10, RecommendedMinutes: 12},
			{Subtest: SubtestPK, QuestionCount: 10, RecommendedMinutes: 10},
			{Subtest: SubtestLitIndo, QuestionCount: 10, RecommendedMinutes: 15},
			{Subtest: SubtestLitIng, QuestionCount: 10, RecommendedMinutes: 12},
			{Subtest: SubtestPM, QuestionCount: 10, RecommendedMinutes: 15},
		},
	},
	ModeFullTryout: {
		Mode:           ModeFullTryout,
		TotalQuestions: 160,
		Quotas: []SubtestQuota{
			{Subtest: SubtestPU, QuestionCount: 30, RecommendedMinutes: 30},
			{Subtest: SubtestPPU, QuestionCount: 20, RecommendedMinutes: 15},
			{Subtest: SubtestPBM, QuestionCount: 20, RecommendedMinutes: 25},
			{Subtest: SubtestPK, QuestionCount: 20, RecommendedMinutes: 20},
			{Subtest: SubtestLitIndo, QuestionCount: 30, RecommendedMinutes: 45},
			{Subtest: SubtestLitIng, QuestionCount: 20, RecommendedMinutes: 30},
			{Subtest: SubtestPM, QuestionCount: 20, RecommendedMinutes: 30},
		},
	},
}

// ConfigForMode returns the session configuration for a mode.
func ConfigForMode(mode AssessmentMode) (SessionConfig, bool) {
	cfg, ok := sessionConfigs[mode]
	return cfg, ok
}

// QuotasFor resolves the per-subtest quotas of the configuration. For focus
// mode the single quota is built from the caller-chosen subtest; for all
// other modes the focus argument is ignored.
func (c SessionConfig) QuotasFor(focus SubtestCode) ([]SubtestQuota, error) {
	if c.Mode != ModeFocusDaily {
		return c.Quotas, nil
	}
	if focus == "" {
		return nil, NewMissingSubtestError()
	}
	if _, ok := SubtestByCode(focus); !ok {
		return nil, NewInvalidSubtestError(string(focus))
	}
	return []SubtestQuota{{Subtest: focus, QuestionCount: c.FocusQuestionCount}}, nil
}

// Validate checks the configuration invariant: quota counts sum to the
// configured total.
func (c SessionConfig) Validate() error {
	if c.Mode == ModeFocusDaily {
		if c.FocusQuestionCount != c.TotalQuestions {
			return NewInternalError("focus question count does not match total", nil)
		}
		return nil
	}
	sum := 0
	for _, q := range c.Quotas {
		sum += q.QuestionCount
	}
	if sum != c.TotalQuestions {
		return NewInternalError("quota counts do not sum to configured total", nil)
	}
	return nil
}

// AssessmentSession records one started session: who drew which questions
// in which mode. Submission may reference it so scoring does not have to
// trust a client-supplied question list.
type AssessmentSession struct {
	ID           string
	UserID       string
	Mode         AssessmentMode
	FocusSubtest SubtestCode // empty unless focus mode
	QuestionIDs  []string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// SessionRepository defines the interface for session persistence.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *AssessmentSession) error
	GetSessionByID(ctx context.Context, id string) (*AssessmentSession, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error
}

// TransactionManager runs a function inside a database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
