package handler

import (
	"utbk-prep/internal/domain"
	"utbk-prep/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the static subtest catalog
type CatalogHandler struct{}

// NewCatalogHandler creates a new CatalogHandler instance
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetSubtests godoc
// @Summary List the subtests
// @Description Returns the seven UTBK subtests in display order
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.SubtestResponse
// @Router /subtests [get]
func (h *CatalogHandler) GetSubtests(c *fiber.Ctx) error {
	response := make([]dto.SubtestResponse, len(domain.Subtests))
	for i, subtest := range domain.Subtests {
		response[i] = dto.SubtestResponse{
			Code:         string(subtest.Code),
			Name:         subtest.Name,
			DisplayOrder: subtest.DisplayOrder,
		}
	}
	return c.JSON(response)
}
