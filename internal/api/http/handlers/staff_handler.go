package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-hrm/hrm-service/internal/api/dto"
	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/roster"
	"github.com/nexus-hrm/hrm-service/internal/service"
)

// StaffHandler exposes roster and dashboard endpoints.
type StaffHandler struct {
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// ListStaff handles GET /staff/members.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	records, err := h.staffService.ListStaff(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(records))
	for i := range records {
		resp = append(resp, staffResponse(&records[i], false))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetStaff handles GET /staff/members/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	rec, err := h.staffService.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(rec, true)})
}

// GrantMetric handles POST /staff/members/:id/metrics.
func (h *StaffHandler) GrantMetric(c *fiber.Ctx) error {
	var req dto.GrantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.staffService.GrantMetric(c.Context(), c.Params("id"), roster.MetricKind(req.Kind), req.Amount, actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(rec, true)})
}

// Stats handles GET /dashboard/stats.
func (h *StaffHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.staffService.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		TotalStaff:           stats.TotalStaff,
		ActiveNow:            stats.ActiveNow,
		PendingPromotions:    stats.PendingPromotions,
		TotalMinutesThisWeek: stats.TotalMinutesThisWeek,
		PointsIssuedToday:    stats.PointsIssuedToday,
	}})
}

func staffResponse(rec *domain.StaffRecord, includeLogs bool) dto.StaffResponse {
	resp := dto.StaffResponse{
		ID:              rec.ID,
		ExternalID:      rec.ExternalID,
		DisplayName:     rec.DisplayName,
		Role:            string(rec.InternalRoleID),
		RoleName:        domain.RoleName(rec.InternalRoleID),
		Status:          string(rec.Status),
		JoinedDate:      rec.JoinedDate,
		TotalPoints:     rec.TotalPoints,
		TotalMinutes:    rec.TotalMinutes,
		IsActiveSession: rec.IsActiveSession,
		ShiftsCompleted: rec.ShiftsCompleted,
		AvatarRef:       rec.AvatarRef,
	}
	if includeLogs {
		resp.Logs = make([]dto.LogResponse, 0, len(rec.Logs))
		for _, log := range rec.Logs {
			resp.Logs = append(resp.Logs, dto.LogResponse{
				ID:        log.ID,
				Kind:      string(log.Kind),
				Message:   log.Description,
				IssuedBy:  log.IssuedBy,
				CreatedAt: log.Date,
			})
		}
	}
	return resp
}
