package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-hrm/hrm-service/internal/api/dto"
	"github.com/nexus-hrm/hrm-service/internal/service"
)

// InsightHandler exposes AI narrative endpoints.
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler constructs handler.
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// AnalyzeStaff handles POST /staff/members/:id/analysis.
func (h *InsightHandler) AnalyzeStaff(c *fiber.Ctx) error {
	analysis, err := h.insightService.AnalyzeStaff(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalysisResponse{
		Summary:         analysis.Summary,
		Recommendation:  analysis.Recommendation,
		PotentialRating: analysis.PotentialRating,
		Sentiment:       analysis.Sentiment,
	}})
}

// WorkforceAudit handles POST /insights/workforce.
func (h *InsightHandler) WorkforceAudit(c *fiber.Ctx) error {
	narrative, err := h.insightService.WorkforceAudit(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WorkforceResponse{Narrative: narrative}})
}
