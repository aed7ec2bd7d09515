package service

import (
	"context"
	"errors"
	"testing"

	"utbk-prep/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStartAssessmentBalancedDaily(t *testing.T) {
	sampler := new(MockSampler)
	sessions := new(MockSessionRepository)
	for _, subtest := range domain.Subtests {
		sampler.On("Sample", mock.Anything, subtest.Code, 3).Return(makeQuestions(subtest.Code, 3), nil)
	}

	svc := NewAssessmentService(sampler, sessions)
	resp, err := svc.StartAssessment(context.Background(), domain.ModeBalancedDaily, "", "")

	assert.NoError(t, err)
	assert.Equal(t, 21, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 21)
	assert.Len(t, resp.SubtestBreakdown, 7)
	assert.Empty(t, resp.SessionID)

	// Breakdown and questions come out in display order.
	for i, breakdown := range resp.SubtestBreakdown {
		assert.Equal(t, string(domain.Subtests[i].Code), breakdown.SubtestCode)
		assert.Equal(t, i+1, breakdown.DisplayOrder)
		assert.Equal(t, 3, breakdown.QuestionCount)
	}
	for i, q := range resp.Questions {
		assert.Equal(t, string(domain.Subtests[i/3].Code), q.SubtestCode)
	}
	sampler.AssertExpectations(t)
}

func TestStartAssessmentStripsAnswerKeys(t *testing.T) {
	sampler := new(MockSampler)
	sampler.On("Sample", mock.Anything, domain.SubtestPU, 10).Return(makeQuestions(domain.SubtestPU, 10), nil)

	svc := NewAssessmentService(sampler, new(MockSessionRepository))
	resp, err := svc.StartAssessment(context.Background(), domain.ModeFocusDaily, "", string(domain.SubtestPU))

	assert.NoError(t, err)
	assert.Len(t, resp.Questions, 10)
	for _, q := range resp.Questions {
		assert.NotEmpty(t, q.Options)
		for _, opt := range q.Options {
			assert.NotEmpty(t, opt.Label)
			assert.NotEmpty(t, opt.Text)
		}
	}
}

func TestStartAssessmentFocusRequiresSubtest(t *testing.T) {
	sampler := new(MockSampler)

	svc := NewAssessmentService(sampler, new(MockSessionRepository))
	_, err := svc.StartAssessment(context.Background(), domain.ModeFocusDaily, "", "")

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeMissingSubtest, domainErr.Code)
	sampler.AssertNumberOfCalls(t, "Sample", 0)
}

func TestStartAssessmentFocusRejectsUnknownSubtest(t *testing.T) {
	sampler := new(MockSampler)

	svc := NewAssessmentService(sampler, new(MockSessionRepository))
	_, err := svc.StartAssessment(context.Background(), domain.ModeFocusDaily, "", "TPS")

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInvalidSubtest, domainErr.Code)
	sampler.AssertNumberOfCalls(t, "Sample", 0)
}

func TestStartAssessmentRejectsUnknownMode(t *testing.T) {
	svc := NewAssessmentService(new(MockSampler), new(MockSessionRepository))
	_, err := svc.StartAssessment(context.Background(), "marathon", "", "")

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInvalidMode, domainErr.Code)
}

func TestStartAssessmentFullTryoutShape(t *testing.T) {
	sampler := new(MockSampler)
	cfg, _ := domain.ConfigForMode(domain.ModeFullTryout)
	for _, quota := range cfg.Quotas {
		sampler.On("Sample", mock.Anything, quota.Subtest, quota.QuestionCount).
			Return(makeQuestions(quota.Subtest, quota.QuestionCount), nil)
	}

	svc := NewAssessmentService(sampler, new(MockSessionRepository))
	resp, err := svc.StartAssessment(context.Background(), domain.ModeFullTryout, "", "")

	assert.NoError(t, err)
	assert.Equal(t, 160, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 160)

	totalMinutes := 0
	for _, breakdown := range resp.SubtestBreakdown {
		totalMinutes += breakdown.RecommendedMinutes
	}
	assert.Equal(t, 195, totalMinutes)

	for _, q := range resp.Questions {
		assert.NotZero(t, q.RecommendedMinutes)
	}
}

func TestStartAssessmentPropagatesSamplerError(t *testing.T) {
	sampler := new(MockSampler)
	poolErr := domain.NewInsufficientPoolError(domain.SubtestPM, 3, 1)
	for _, subtest := range domain.Subtests {
		if subtest.Code == domain.SubtestPM {
			sampler.On("Sample", mock.Anything, subtest.Code, 3).Return(nil, poolErr)
			continue
		}
		sampler.On("Sample", mock.Anything, subtest.Code, 3).Return(makeQuestions(subtest.Code, 3), nil).Maybe()
	}

	svc := NewAssessmentService(sampler, new(MockSessionRepository))
	_, err := svc.StartAssessment(context.Background(), domain.ModeBalancedDaily, "", "")

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInsufficientPool, domainErr.Code)
}

func TestStartAssessmentRecordsSessionForKnownUser(t *testing.T) {
	sampler := new(MockSampler)
	sessions := new(MockSessionRepository)
	sampler.On("Sample", mock.Anything, domain.SubtestPU, 10).Return(makeQuestions(domain.SubtestPU, 10), nil)
	sessions.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *domain.AssessmentSession) bool {
		return s.UserID == "user-1" &&
			s.Mode == domain.ModeFocusDaily &&
			s.FocusSubtest == domain.SubtestPU &&
			len(s.QuestionIDs) == 10 &&
			s.ID != ""
	})).Return(nil)

	svc := NewAssessmentService(sampler, sessions)
	resp, err := svc.StartAssessment(context.Background(), domain.ModeFocusDaily, "user-1", string(domain.SubtestPU))

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	sessions.AssertExpectations(t)
}

func TestStartAssessmentSessionWriteFailureIsNotFatal(t *testing.T) {
	sampler := new(MockSampler)
	sessions := new(MockSessionRepository)
	sampler.On("Sample", mock.Anything, domain.SubtestPU, 10).Return(makeQuestions(domain.SubtestPU, 10), nil)
	sessions.On("CreateSession", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewAssessmentService(sampler, sessions)
	resp, err := svc.StartAssessment(context.Background(), domain.ModeFocusDaily, "user-1", string(domain.SubtestPU))

	assert.NoError(t, err)
	assert.Empty(t, resp.SessionID)
	assert.Len(t, resp.Questions, 10)
}

func TestGetSessionNotFound(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("GetSessionByID", mock.Anything, "missing").Return(nil, nil)

	svc := NewAssessmentService(new(MockSampler), sessions)
	_, err := svc.GetSession(context.Background(), "missing", "user-1")

	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
}

func TestGetSessionOwnerScoped(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("GetSessionByID", mock.Anything, "sess-1").Return(&domain.AssessmentSession{
		ID:          "sess-1",
		UserID:      "user-2",
		Mode:        domain.ModeBalancedDaily,
		QuestionIDs: []string{"q1", "q2"},
	}, nil)

	svc := NewAssessmentService(new(MockSampler), sessions)

	_, err := svc.GetSession(context.Background(), "sess-1", "user-1")
	var domainErr *domain.DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)

	resp, err := svc.GetSession(context.Background(), "sess-1", "user-2")
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", resp.ID)
	assert.Equal(t, []string{"q1", "q2"}, resp.QuestionIDs)
}
