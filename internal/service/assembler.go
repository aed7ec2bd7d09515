package service

import (
	"context"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AssessmentService assembles question sets for the four assessment modes.
// One parameterized implementation serves all modes; the per-mode shape
// lives entirely in the session configuration table.
type AssessmentService interface {
	StartAssessment(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error)
	GetSession(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error)
}

type assessmentService struct {
	sampler  Sampler
	sessions domain.SessionRepository
}

// NewAssessmentService creates a new instance of assessmentService.
func NewAssessmentService(sampler Sampler, sessions domain.SessionRepository) AssessmentService {
	return &assessmentService{
		sampler:  sampler,
		sessions: sessions,
	}
}

// StartAssessment draws the configured question set for a mode. Per-subtest
// draws run concurrently; the first failing subtest cancels the rest and is
// reported to the caller. Answer keys are stripped from the response.
func (s *assessmentService) StartAssessment(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error) {
	cfg, ok := domain.ConfigForMode(mode)
	if !ok {
		return nil, domain.NewInvalidModeError(string(mode))
	}

	quotas, err := cfg.QuotasFor(domain.SubtestCode(focusSubtest))
	if err != nil {
		return nil, err
	}

	drawn := make([][]*domain.Question, len(quotas))
	g, gctx := errgroup.WithContext(ctx)
	for i, quota := range quotas {
		i, quota := i, quota
		g.Go(func() error {
			questions, sampleErr := s.sampler.Sample(gctx, quota.Subtest, quota.QuestionCount)
			if sampleErr != nil {
				return sampleErr
			}
			drawn[i] = questions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Quotas are declared in display order, so concatenation preserves it.
	response := &dto.StartAssessmentResponse{
		Mode:             string(mode),
		TotalQuestions:   cfg.TotalQuestions,
		Questions:        make([]dto.QuestionResponse, 0, cfg.TotalQuestions),
		SubtestBreakdown: make([]dto.SubtestBreakdown, 0, len(quotas)),
	}
	questionIDs := make([]string, 0, cfg.TotalQuestions)

	for i, quota := range quotas {
		subtest, _ := domain.SubtestByCode(quota.Subtest)
		response.SubtestBreakdown = append(response.SubtestBreakdown, dto.SubtestBreakdown{
			SubtestCode:        string(quota.Subtest),
			Name:               subtest.Name,
			DisplayOrder:       subtest.DisplayOrder,
			QuestionCount:      quota.QuestionCount,
			RecommendedMinutes: quota.RecommendedMinutes,
		})

		for _, q := range drawn[i] {
			questionIDs = append(questionIDs, q.ID)
			qr := dto.QuestionResponse{
				ID:          q.ID,
				SubtestCode: string(q.SubtestCode),
				Text:        q.Text,
				Options:     make([]dto.OptionResponse, len(q.Options)),
			}
			for j, opt := range q.Options {
				qr.Options[j] = dto.OptionResponse{Label: opt.Label, Text: opt.Text}
			}
			if mode == domain.ModeFullTryout {
				qr.RecommendedMinutes = quota.RecommendedMinutes
			}
			response.Questions = append(response.Questions, qr)
		}
	}

	// Recording the session is supplementary; assembly itself has no
	// persisted side effect, so a failed insert degrades to a stateless
	// session instead of failing the start.
	if userID != "" {
		session := &domain.AssessmentSession{
			ID:          util.NewULID(),
			UserID:      userID,
			Mode:        mode,
			QuestionIDs: questionIDs,
			StartedAt:   time.Now(),
		}
		if mode == domain.ModeFocusDaily {
			session.FocusSubtest = domain.SubtestCode(focusSubtest)
		}
		if err := s.sessions.CreateSession(ctx, session); err != nil {
			logger.Get().Warn("Failed to record assessment session, continuing stateless",
				zap.Error(err),
				zap.String("userID", userID),
				zap.String("mode", string(mode)))
		} else {
			response.SessionID = session.ID
		}
	}

	return response, nil
}

// GetSession returns the stored metadata of one session. Sessions are
// owner-scoped; a caller other than the recorded owner is refused.
func (s *assessmentService) GetSession(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error) {
	session, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load assessment session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	if session.UserID != callerID {
		return nil, domain.NewError(domain.CodeForbidden, "session belongs to a different user", nil)
	}

	response := &dto.SessionResponse{
		ID:           session.ID,
		UserID:       session.UserID,
		Mode:         string(session.Mode),
		FocusSubtest: string(session.FocusSubtest),
		QuestionIDs:  session.QuestionIDs,
		StartedAt:    session.StartedAt.Format(time.RFC3339),
	}
	if session.CompletedAt != nil {
		response.CompletedAt = session.CompletedAt.Format(time.RFC3339)
	}
	return response, nil
}
