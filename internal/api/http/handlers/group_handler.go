package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-hrm/hrm-service/internal/api/dto"
	"github.com/nexus-hrm/hrm-service/internal/auth"
	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/service"
)

// GroupHandler exposes group integration endpoints.
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler constructs handler.
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// LinkGroup handles POST /integration/group.
func (h *GroupHandler) LinkGroup(c *fiber.Ctx) error {
	var req dto.LinkGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.GroupID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "group_id required")
	}

	link, sync, err := h.groupService.LinkGroup(c.Context(), actorName(c), req.GroupID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"group": groupResponse(link),
			"sync":  syncResponse(sync),
		},
	})
}

// GetGroup handles GET /integration/group.
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	link, err := h.groupService.GetLink(c.Context())
	if err != nil {
		return err
	}
	if link == nil {
		return fiber.NewError(http.StatusNotFound, "no group linked")
	}
	return c.JSON(fiber.Map{"data": groupResponse(link)})
}

// SyncMembers handles POST /integration/sync.
func (h *GroupHandler) SyncMembers(c *fiber.Ctx) error {
	result, err := h.groupService.SyncMembers(c.Context(), actorName(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": syncResponse(result)})
}

// UpdateMappings handles PUT /integration/group/mappings.
func (h *GroupHandler) UpdateMappings(c *fiber.Ctx) error {
	var req dto.UpdateMappingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Mappings) == 0 {
		return fiber.NewError(http.StatusBadRequest, "mappings required")
	}

	mappings := make([]domain.RankMapping, 0, len(req.Mappings))
	for _, m := range req.Mappings {
		mappings = append(mappings, domain.RankMapping{
			ExternalRankID: m.ExternalRankID,
			InternalRoleID: domain.RoleID(m.InternalRoleID),
			Label:          m.Label,
		})
	}

	link, err := h.groupService.UpdateMappings(c.Context(), mappings)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": groupResponse(link)})
}

func actorName(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		return principal.User.Username
	}
	return "system"
}

func groupResponse(link *domain.GroupLink) dto.GroupResponse {
	mappings := make([]dto.RankMappingPayload, 0, len(link.Mappings))
	for _, m := range link.Mappings {
		mappings = append(mappings, dto.RankMappingPayload{
			ExternalRankID: m.ExternalRankID,
			InternalRoleID: string(m.InternalRoleID),
			Label:          m.Label,
		})
	}
	return dto.GroupResponse{
		GroupID:   link.GroupID,
		GroupName: link.Name,
		LinkedAt:  link.LinkedAt,
		Mappings:  mappings,
	}
}

func syncResponse(result *service.SyncResult) dto.SyncResponse {
	return dto.SyncResponse{
		Fetched:    result.Fetched,
		Admitted:   result.Admitted,
		RosterSize: result.RosterSize,
	}
}
