package handler

import (
	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
	"utbk-prep/internal/logger"
	"utbk-prep/internal/middleware"
	"utbk-prep/internal/service"
	"utbk-prep/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssessmentHandler handles assessment session HTTP requests
type AssessmentHandler struct {
	assessments service.AssessmentService
	submissions service.SubmissionService
	validator   *validation.Validator
}

// NewAssessmentHandler creates a new AssessmentHandler instance
func NewAssessmentHandler(assessments service.AssessmentService, submissions service.SubmissionService) *AssessmentHandler {
	return &AssessmentHandler{
		assessments: assessments,
		submissions: submissions,
		validator:   validation.NewValidator(),
	}
}

// StartAssessment godoc
// @Summary Start an assessment session
// @Description Assembles the question set for the requested mode
// @Tags assessments
// @Accept json
// @Produce json
// @Param mode path string true "Assessment mode"
// @Param request body dto.StartAssessmentRequest false "Start options"
// @Success 200 {object} dto.StartAssessmentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /assessments/{mode}/start [post]
func (h *AssessmentHandler) StartAssessment(c *fiber.Ctx) error {
	mode := c.Locals("validated_mode").(domain.AssessmentMode)

	req := new(dto.StartAssessmentRequest)
	// Body is optional for modes other than focus.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
	}
	if errs := h.validator.ValidateStartRequest(req); len(errs) > 0 {
		return errs
	}

	userID := resolveUserID(c, req.UserID)

	response, err := h.assessments.StartAssessment(c.Context(), mode, userID, req.SubtestCode)
	if err != nil {
		return err
	}

	logger.Get().Info("Assessment session started",
		zap.String("mode", string(mode)),
		zap.String("sessionID", response.SessionID),
		zap.Int("questions", response.TotalQuestions))
	return c.JSON(response)
}

// SubmitAssessment godoc
// @Summary Submit assessment answers
// @Description Scores the submitted answers against the stored answer keys
// @Tags assessments
// @Accept json
// @Produce json
// @Param mode path string true "Assessment mode"
// @Param request body dto.SubmitAssessmentRequest true "Submitted answers"
// @Success 200 {object} dto.SubmitAssessmentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /assessments/{mode}/submit [post]
func (h *AssessmentHandler) SubmitAssessment(c *fiber.Ctx) error {
	mode := c.Locals("validated_mode").(domain.AssessmentMode)

	req := new(dto.SubmitAssessmentRequest)
	if err := c.BodyParser(req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSubmitRequest(req); len(errs) > 0 {
		return errs
	}

	req.UserID = resolveUserID(c, req.UserID)

	response, err := h.submissions.SubmitAssessment(c.Context(), mode, req)
	if err != nil {
		return err
	}

	logger.Get().Info("Assessment scored",
		zap.String("mode", string(mode)),
		zap.String("sessionID", req.SessionID),
		zap.Int("accuracy", response.Accuracy))
	return c.JSON(response)
}

// GetSession godoc
// @Summary Get a session
// @Description Returns the stored metadata of one of the authenticated user's assessment sessions
// @Tags assessments
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *AssessmentHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return domain.NewInvalidInputError("session id is required")
	}
	callerID, _ := c.Locals(middleware.UserIDKey).(string)

	response, err := h.assessments.GetSession(c.Context(), sessionID, callerID)
	if err != nil {
		return err
	}
	return c.JSON(response)
}

// resolveUserID prefers the authenticated identity over anything in the
// request body.
func resolveUserID(c *fiber.Ctx, bodyUserID string) string {
	if userID, ok := c.Locals(middleware.UserIDKey).(string); ok && userID != "" {
		return userID
	}
	return bodyUserID
}
