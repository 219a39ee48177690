package dto

import "time"

// LinkGroupRequest payload.
type LinkGroupRequest struct {
	GroupID int64 `json:"group_id"`
}

// RankMappingPayload is one mapping table row.
type RankMappingPayload struct {
	ExternalRankID int    `json:"external_rank_id"`
	InternalRoleID string `json:"internal_role_id"`
	Label          string `json:"label"`
}

// UpdateMappingsRequest replaces the mapping table.
type UpdateMappingsRequest struct {
	Mappings []RankMappingPayload `json:"mappings"`
}

// GroupResponse describes the linked group.
type GroupResponse struct {
	GroupID   int64                `json:"group_id"`
	GroupName string               `json:"group_name"`
	LinkedAt  time.Time            `json:"linked_at"`
	Mappings  []RankMappingPayload `json:"mappings"`
}

// SyncResponse reports a reconciliation run.
type SyncResponse struct {
	Fetched    int `json:"fetched"`
	Admitted   int `json:"admitted"`
	RosterSize int `json:"roster_size"`
}
