package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"utbk-prep/internal/config"
	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/handler"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func init() {
	_ = logger.Initialize(config.LoggerConfig{})
}

// --- Manual Mocks ---

// MockAssessmentService
type MockAssessmentService struct {
	StartAssessmentFunc func(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error)
	GetSessionFunc      func(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error)
}

func (m *MockAssessmentService) StartAssessment(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error) {
	if m.StartAssessmentFunc != nil {
		return m.StartAssessmentFunc(ctx, mode, userID, focusSubtest)
	}
	panic("MockAssessmentService.StartAssessmentFunc not implemented")
}
func (m *MockAssessmentService) GetSession(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID, callerID)
	}
	panic("MockAssessmentService.GetSessionFunc not implemented")
}

// MockSubmissionService
type MockSubmissionService struct {
	SubmitAssessmentFunc func(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error)
}

func (m *MockSubmissionService) SubmitAssessment(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error) {
	if m.SubmitAssessmentFunc != nil {
		return m.SubmitAssessmentFunc(ctx, mode, req)
	}
	panic("MockSubmissionService.SubmitAssessmentFunc not implemented")
}

func setupApp(assessments *MockAssessmentService, submissions *MockSubmissionService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewAssessmentHandler(assessments, submissions)
	vm := middleware.NewValidationMiddleware()

	api := app.Group("/api")
	api.Post("/assessments/:mode/start", vm.ValidateAssessmentMode(), h.StartAssessment)
	api.Post("/assessments/:mode/submit", vm.ValidateAssessmentMode(), h.SubmitAssessment)
	// Stands in for the auth middleware, which has its own tests.
	api.Get("/sessions/:id", func(c *fiber.Ctx) error {
		if userID := c.Get("X-Test-User"); userID != "" {
			c.Locals(middleware.UserIDKey, userID)
		}
		return c.Next()
	}, h.GetSession)
	return app
}

func TestStartAssessmentHandler(t *testing.T) {
	assessments := &MockAssessmentService{
		StartAssessmentFunc: func(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error) {
			assert.Equal(t, domain.ModeBalancedDaily, mode)
			return &dto.StartAssessmentResponse{Mode: string(mode), TotalQuestions: 21}, nil
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("POST", "/api/assessments/balanced-daily/start", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.StartAssessmentResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "balanced-daily", body.Mode)
	assert.Equal(t, 21, body.TotalQuestions)
}

func TestStartAssessmentHandlerUnknownMode(t *testing.T) {
	app := setupApp(&MockAssessmentService{}, &MockSubmissionService{})

	req := httptest.NewRequest("POST", "/api/assessments/marathon/start", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeValidation), body.Code)
}

func TestStartAssessmentHandlerFocusMissingSubtest(t *testing.T) {
	assessments := &MockAssessmentService{
		StartAssessmentFunc: func(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error) {
			return nil, domain.NewMissingSubtestError()
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("POST", "/api/assessments/focus-daily/start", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeMissingSubtest), body.Code)
}

func TestStartAssessmentHandlerInsufficientPool(t *testing.T) {
	assessments := &MockAssessmentService{
		StartAssessmentFunc: func(ctx context.Context, mode domain.AssessmentMode, userID, focusSubtest string) (*dto.StartAssessmentResponse, error) {
			return nil, domain.NewInsufficientPoolError(domain.SubtestPM, 20, 4)
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("POST", "/api/assessments/full-tryout/start", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body middleware.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CodeInsufficientPool), body.Code)
	assert.Equal(t, "PM", body.Details["subtest"])
	assert.Equal(t, float64(20), body.Details["required"])
	assert.Equal(t, float64(4), body.Details["available"])
}

func TestSubmitAssessmentHandler(t *testing.T) {
	submissions := &MockSubmissionService{
		SubmitAssessmentFunc: func(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error) {
			assert.Equal(t, domain.ModeMiniTryout, mode)
			assert.Len(t, req.Questions, 2)
			return &dto.SubmitAssessmentResponse{TotalQuestions: 2, TotalCorrect: 1, Accuracy: 50}, nil
		},
	}
	app := setupApp(&MockAssessmentService{}, submissions)

	payload, _ := json.Marshal(dto.SubmitAssessmentRequest{
		Questions: []dto.SubmittedQuestion{{ID: "q1"}, {ID: "q2"}},
		Answers:   map[string]string{"0": "A"},
	})
	req := httptest.NewRequest("POST", "/api/assessments/mini-tryout/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.SubmitAssessmentResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 50, body.Accuracy)
}

func TestSubmitAssessmentHandlerRejectsBadAnswerLabel(t *testing.T) {
	app := setupApp(&MockAssessmentService{}, &MockSubmissionService{})

	payload, _ := json.Marshal(dto.SubmitAssessmentRequest{
		Questions: []dto.SubmittedQuestion{{ID: "q1"}},
		Answers:   map[string]string{"0": "Z"},
	})
	req := httptest.NewRequest("POST", "/api/assessments/mini-tryout/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAssessmentHandlerSessionMismatch(t *testing.T) {
	submissions := &MockSubmissionService{
		SubmitAssessmentFunc: func(ctx context.Context, mode domain.AssessmentMode, req *dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error) {
			return nil, domain.NewError(domain.CodeSessionMismatch, "submitted questions do not match the session", nil)
		},
	}
	app := setupApp(&MockAssessmentService{}, submissions)

	payload, _ := json.Marshal(dto.SubmitAssessmentRequest{
		Questions: []dto.SubmittedQuestion{{ID: "q1"}},
		Answers:   map[string]string{"0": "A"},
	})
	req := httptest.NewRequest("POST", "/api/assessments/balanced-daily/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetSessionHandlerNotFound(t *testing.T) {
	assessments := &MockAssessmentService{
		GetSessionFunc: func(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error) {
			return nil, domain.NewSessionNotFoundError(sessionID)
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("GET", "/api/sessions/01HZXW0000000000000000TEST", nil)
	req.Header.Set("X-Test-User", "user-1")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetSessionHandlerPassesCallerIdentity(t *testing.T) {
	assessments := &MockAssessmentService{
		GetSessionFunc: func(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error) {
			assert.Equal(t, "sess-1", sessionID)
			assert.Equal(t, "user-1", callerID)
			return &dto.SessionResponse{ID: sessionID, UserID: callerID}, nil
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("GET", "/api/sessions/sess-1", nil)
	req.Header.Set("X-Test-User", "user-1")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetSessionHandlerForbiddenForOtherOwner(t *testing.T) {
	assessments := &MockAssessmentService{
		GetSessionFunc: func(ctx context.Context, sessionID, callerID string) (*dto.SessionResponse, error) {
			return nil, domain.NewError(domain.CodeForbidden, "session belongs to a different user", nil)
		},
	}
	app := setupApp(assessments, &MockSubmissionService{})

	req := httptest.NewRequest("GET", "/api/sessions/sess-1", nil)
	req.Header.Set("X-Test-User", "user-2")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
