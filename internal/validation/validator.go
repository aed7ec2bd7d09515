package validation

import (
	"regexp"
	"strings"

	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateMode validates an assessment mode path parameter
func (v *Validator) ValidateMode(mode string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(mode) == "" {
		errors = append(errors, domain.NewMissingFieldError("mode"))
		return errors
	}
	if !domain.IsValidMode(mode) {
		errors = append(errors, domain.NewInvalidFormatError("mode", mode))
	}

	return errors
}

// ValidateStartRequest validates the start assessment request body. The
// subtest code is only required for focus mode; the mode-dependent check
// lives in the service.
func (v *Validator) ValidateStartRequest(req *dto.StartAssessmentRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.SubtestCode != "" && !domain.IsValidSubtestCode(req.SubtestCode) {
		errors = append(errors, domain.NewInvalidFormatError("subtest_code", req.SubtestCode))
	}
	if req.UserID != "" && len(req.UserID) > 64 {
		errors = append(errors, domain.NewOutOfRangeError("user_id", len(req.UserID), 1, 64))
	}

	return errors
}

// ValidateSubmitRequest validates the submit assessment request body
func (v *Validator) ValidateSubmitRequest(req *dto.SubmitAssessmentRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	}
	for _, q := range req.Questions {
		if strings.TrimSpace(q.ID) == "" {
			errors = append(errors, domain.NewMissingFieldError("questions[].id"))
			break
		}
	}

	if req.SessionID != "" && !isValidULID(req.SessionID) {
		errors = append(errors, domain.NewInvalidFormatError("session_id", req.SessionID))
	}
	if req.SubtestCode != "" && !domain.IsValidSubtestCode(req.SubtestCode) {
		errors = append(errors, domain.NewInvalidFormatError("subtest_code", req.SubtestCode))
	}
	if req.TotalTimeSeconds < 0 {
		errors = append(errors, domain.NewOutOfRangeError("total_time_seconds", req.TotalTimeSeconds, 0, 86400))
	}

	for position, label := range req.Answers {
		if !isPositionIndex(position) {
			errors = append(errors, domain.NewInvalidFormatError("answers", position))
			break
		}
		if !isAnswerLabel(label) {
			errors = append(errors, domain.NewInvalidFormatError("answers."+position, label))
			break
		}
	}

	return errors
}

// Helper functions for validation

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

// isPositionIndex checks if the string is a non-negative decimal index
func isPositionIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// isAnswerLabel checks if the label is one of the known option labels
func isAnswerLabel(label string) bool {
	for _, known := range domain.AnswerLabels {
		if label == known {
			return true
		}
	}
	return false
}
