package middleware

import (
	"utbk-prep/internal/domain"
	"utbk-prep/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateAssessmentMode validates the mode path parameter
func (vm *ValidationMiddleware) ValidateAssessmentMode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Params("mode")

		if errors := vm.validator.ValidateMode(mode); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		// Store validated value in context for handlers to use
		c.Locals("validated_mode", domain.AssessmentMode(mode))
		return c.Next()
	}
}
