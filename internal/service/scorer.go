package service

import (
	"context"
	"strconv"
	"time"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/util"

	"go.uber.org/zap"
)

// pacingTolerance is the fraction of the recommended time inside which a
// subtest counts as on-time.
const pacingTolerance = 0.10

// SubmissionService scores a finished session against the stored answer
// keys and reports per-subtest aggregates.
type SubmissionService interface {
	SubmitAssessment(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error)
}

type submissionService struct {
	questions   domain.QuestionRepository
	sessions    domain.SessionRepository
	submissions domain.SubmissionRepository
	txManager   domain.TransactionManager
	ledger      LedgerService
}

// NewSubmissionService creates a new instance of submissionService.
func NewSubmissionService(
	questions domain.QuestionRepository,
	sessions domain.SessionRepository,
	submissions domain.SubmissionRepository,
	txManager domain.TransactionManager,
	ledger LedgerService,
) SubmissionService {
	return &submissionService{
		questions:   questions,
		sessions:    sessions,
		submissions: submissions,
		txManager:   txManager,
		ledger:      ledger,
	}
}

// subtestTally accumulates per-subtest counts during scoring.
type subtestTally struct {
	correct int
	total   int
	seconds int
}

// SubmitAssessment scores the submitted answers. Correctness always comes
// from the stored answer keys, never from anything the client sent. The
// client's question list is the wire contract; when a session ID is supplied
// the list is verified against the session's recorded draw first.
func (s *submissionService) SubmitAssessment(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error) {
	if _, ok := domain.ConfigForMode(mode); !ok {
		return nil, domain.NewInvalidModeError(string(mode))
	}
	if len(req.Questions) == 0 {
		return nil, domain.NewInvalidInputError("questions list must not be empty")
	}
	if mode == domain.ModeFocusDaily {
		if req.SubtestCode == "" {
			return nil, domain.NewMissingSubtestError()
		}
		if !domain.IsValidSubtestCode(req.SubtestCode) {
			return nil, domain.NewInvalidSubtestError(req.SubtestCode)
		}
	}

	questionIDs := make([]string, len(req.Questions))
	for i, q := range req.Questions {
		questionIDs[i] = q.ID
	}

	if req.SessionID != "" {
		if err := s.verifySession(ctx, req, questionIDs); err != nil {
			return nil, err
		}
	}

	byID, err := s.loadGroundTruth(ctx, questionIDs)
	if err != nil {
		return nil, err
	}

	cfg, _ := domain.ConfigForMode(mode)
	now := time.Now()
	tallies := make(map[domain.SubtestCode]*subtestTally)
	rows := make([]*domain.Submission, 0, len(questionIDs))
	totalCorrect := 0

	for i, id := range questionIDs {
		question := byID[id]
		selected := req.Answers[strconv.Itoa(i)]
		correct := selected != "" && selected == question.CorrectAnswer
		if correct {
			totalCorrect++
		}

		tally, ok := tallies[question.SubtestCode]
		if !ok {
			tally = &subtestTally{}
			tallies[question.SubtestCode] = tally
		}
		tally.total++
		if correct {
			tally.correct++
		}

		rows = append(rows, &domain.Submission{
			ID:             util.NewULID(),
			SessionID:      req.SessionID,
			UserID:         req.UserID,
			QuestionID:     id,
			SubtestCode:    question.SubtestCode,
			SelectedAnswer: selected,
			IsCorrect:      correct,
			Mode:           mode,
			FocusSubtest:   domain.SubtestCode(req.SubtestCode),
			AnsweredAt:     now,
			CreatedAt:      now,
		})
	}

	s.apportionTime(req, tallies, rows)

	response := &dto.SubmitAssessmentResponse{
		SessionID:      req.SessionID,
		TotalQuestions: len(questionIDs),
		TotalCorrect:   totalCorrect,
		Accuracy:       util.RoundPercent(totalCorrect, len(questionIDs)),
		SubtestResults: make([]dto.SubtestResult, 0, len(tallies)),
	}

	// Walk the catalog so results come out in display order and ties in the
	// strongest/weakest picks resolve to the earlier subtest.
	bestAccuracy, worstAccuracy := -1, 101
	for _, subtest := range domain.Subtests {
		tally, ok := tallies[subtest.Code]
		if !ok {
			continue
		}
		accuracy := util.RoundPercent(tally.correct, tally.total)
		result := dto.SubtestResult{
			SubtestCode: string(subtest.Code),
			Name:        subtest.Name,
			Correct:     tally.correct,
			Total:       tally.total,
			Accuracy:    accuracy,
		}
		if mode == domain.ModeFullTryout {
			result.Pacing = pacingFor(cfg, subtest.Code, req.SubtestTimes)
		}
		response.SubtestResults = append(response.SubtestResults, result)

		if accuracy > bestAccuracy {
			bestAccuracy = accuracy
			response.Strongest = string(subtest.Code)
		}
		if accuracy < worstAccuracy {
			worstAccuracy = accuracy
			response.Weakest = string(subtest.Code)
		}
	}

	if req.UserID != "" {
		if err := s.persist(ctx, req, rows, now); err != nil {
			return nil, err
		}
		response.Rewards = s.creditRewards(ctx, mode, req, response.Accuracy)
	}

	return response, nil
}

// verifySession checks that the submitted question list matches the draw
// recorded at session start.
func (s *submissionService) verifySession(ctx context.Context, req *dto.SubmitAssessmentRequest, questionIDs []string) error {
	session, err := s.sessions.GetSessionByID(ctx, req.SessionID)
	if err != nil {
		return domain.NewInternalError("failed to load assessment session", err)
	}
	if session == nil {
		return domain.NewSessionNotFoundError(req.SessionID)
	}
	if req.UserID != "" && session.UserID != req.UserID {
		return domain.NewError(domain.CodeForbidden, "session belongs to a different user", nil)
	}

	// Multiset comparison: with equal lengths, any ID submitted more often
	// than it was drawn drives a count negative. A plain set check would let
	// a duplicated question stand in for an omitted one.
	if len(session.QuestionIDs) != len(questionIDs) {
		return domain.NewError(domain.CodeSessionMismatch, "submitted questions do not match the session", nil)
	}
	remaining := make(map[string]int, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		remaining[id]++
	}
	for _, id := range questionIDs {
		remaining[id]--
		if remaining[id] < 0 {
			return domain.NewError(domain.CodeSessionMismatch, "submitted questions do not match the session", nil)
		}
	}
	return nil
}

// loadGroundTruth fetches the answer keys for every submitted question.
func (s *submissionService) loadGroundTruth(ctx context.Context, questionIDs []string) (map[string]*domain.Question, error) {
	questions, err := s.questions.GetQuestionsByIDs(ctx, questionIDs)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions for scoring", err)
	}
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for _, id := range questionIDs {
		if _, ok := byID[id]; !ok {
			return nil, domain.NewQuestionNotFoundError(id)
		}
	}
	return byID, nil
}

// apportionTime spreads the reported time over the submission rows. When
// per-subtest times are reported each subtest's total is split evenly across
// its questions; otherwise the session total is split across all questions.
func (s *submissionService) apportionTime(req *dto.SubmitAssessmentRequest, tallies map[domain.SubtestCode]*subtestTally, rows []*domain.Submission) {
	for code, tally := range tallies {
		if seconds, ok := req.SubtestTimes[string(code)]; ok {
			tally.seconds = seconds
		}
	}
	fallback := 0
	if len(rows) > 0 {
		fallback = req.TotalTimeSeconds / len(rows)
	}
	for _, row := range rows {
		tally := tallies[row.SubtestCode]
		if tally.seconds > 0 && tally.total > 0 {
			row.TimeSpentSeconds = tally.seconds / tally.total
		} else {
			row.TimeSpentSeconds = fallback
		}
	}
}

// pacingFor classifies the reported subtest time against the recommended
// time, with a tolerance band on either side. Empty when no time was
// reported for the subtest.
func pacingFor(cfg domain.SessionConfig, code domain.SubtestCode, subtestTimes map[string]int) string {
	seconds, ok := subtestTimes[string(code)]
	if !ok || seconds <= 0 {
		return ""
	}
	var recommended int
	for _, quota := range cfg.Quotas {
		if quota.Subtest == code {
			recommended = quota.RecommendedMinutes * 60
			break
		}
	}
	if recommended == 0 {
		return ""
	}
	lower := float64(recommended) * (1 - pacingTolerance)
	upper := float64(recommended) * (1 + pacingTolerance)
	switch {
	case float64(seconds) < lower:
		return "faster"
	case float64(seconds) > upper:
		return "slower"
	default:
		return "on-time"
	}
}

// persist writes the submission batch and closes the session in one
// transaction.
func (s *submissionService) persist(ctx context.Context, req *dto.SubmitAssessmentRequest, rows []*domain.Submission, completedAt time.Time) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissions.SaveSubmissions(txCtx, rows); err != nil {
			return err
		}
		if req.SessionID != "" {
			if err := s.sessions.MarkCompleted(txCtx, req.SessionID, completedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.NewPersistenceError("failed to persist scored submission", err)
	}
	return nil
}

// creditRewards awards coins and XP for the scored submission. Rewards are
// best effort: a ledger failure is logged and the score report is returned
// without the failed credit.
func (s *submissionService) creditRewards(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest, accuracy int) *dto.RewardsResponse {
	// Stateless submits carry no session ID; the reference is left empty so
	// the ledger falls back to one credit per (user, reason) per calendar
	// day. Minting a fresh ID here would defeat that check entirely.
	referenceID := req.SessionID
	metadata := map[string]string{"mode": string(mode)}
	rewards := &dto.RewardsResponse{}

	if coins := CoinsForAccuracy(mode, accuracy); coins > 0 {
		mutation, err := s.ledger.Award(ctx, req.UserID, coins, domain.CurrencyCoins, domain.ReasonAssessmentCoins, referenceID, metadata)
		if err != nil {
			logger.Get().Warn("Failed to credit assessment coins",
				zap.Error(err),
				zap.String("userID", req.UserID),
				zap.String("referenceID", referenceID))
		} else {
			rewards.Coins = mutation.AmountApplied
		}
	}

	if xp := XPForAccuracy(accuracy); xp > 0 {
		mutation, err := s.ledger.Award(ctx, req.UserID, xp, domain.CurrencyXP, domain.ReasonAssessmentXP, referenceID, metadata)
		if err != nil {
			logger.Get().Warn("Failed to credit assessment XP",
				zap.Error(err),
				zap.String("userID", req.UserID),
				zap.String("referenceID", referenceID))
		} else {
			rewards.XP = mutation.AmountApplied
		}
	}

	return rewards
}
