package events

import (
	"time"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGroupLinked    EventType = "group_linked"
	EventMembersSynced  EventType = "members_synced"
	EventMemberAdmitted EventType = "member_admitted"
	EventMetricGranted  EventType = "metric_granted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GroupLinkedPayload payload.
type GroupLinkedPayload struct {
	GroupID      int64  `json:"group_id"`
	GroupName    string `json:"group_name"`
	MappingCount int    `json:"mapping_count"`
}

// MembersSyncedPayload payload.
type MembersSyncedPayload struct {
	GroupID   int64 `json:"group_id"`
	Fetched   int   `json:"fetched"`
	Admitted  int   `json:"admitted"`
	RosterLen int   `json:"roster_len"`
}

// MemberAdmittedPayload payload.
type MemberAdmittedPayload struct {
	StaffID        string        `json:"staff_id"`
	ExternalID     int64         `json:"external_id"`
	DisplayName    string        `json:"display_name"`
	InternalRoleID domain.RoleID `json:"internal_role_id"`
}

// MetricGrantedPayload payload.
type MetricGrantedPayload struct {
	StaffID string `json:"staff_id"`
	Kind    string `json:"kind"`
	Amount  int    `json:"amount"`
}
