package domain

import "time"

// StaffStatus represents lifecycle states for a tracked staff member.
type StaffStatus string

const (
	StaffStatusActive    StaffStatus = "ACTIVE"
	StaffStatusOnLeave   StaffStatus = "ON_LEAVE"
	StaffStatusSuspended StaffStatus = "SUSPENDED"
	StaffStatusRetired   StaffStatus = "RETIRED"
)

// LogKind enumerates performance log entry types.
type LogKind string

const (
	LogKindPoint     LogKind = "POINT"
	LogKindWarning   LogKind = "WARNING"
	LogKindPromotion LogKind = "PROMOTION"
	LogKindDemotion  LogKind = "DEMOTION"
	LogKindShift     LogKind = "SHIFT"
)

// PerformanceLog is one append-only entry in a staff member's record.
// Entries are ordered newest first.
type PerformanceLog struct {
	ID          string
	Date        time.Time
	Kind        LogKind
	Description string
	IssuedBy    string
}

// StaffRecord is the aggregate for one tracked staff member. ExternalID is
// the identity key for reconciliation and unique across the roster; ID is a
// locally generated uuid, stable for the lifetime of the record.
type StaffRecord struct {
	ID              string
	ExternalID      int64
	DisplayName     string
	InternalRoleID  RoleID
	Status          StaffStatus
	JoinedDate      time.Time
	TotalPoints     int
	TotalMinutes    int
	IsActiveSession bool
	ShiftsCompleted int
	AvatarRef       string
	Logs            []PerformanceLog
}

// ExternalMember is one member as reported by the external roster source.
type ExternalMember struct {
	ExternalID     int64
	DisplayName    string
	ExternalRankID int
	AvatarRef      string
}

// RosterStats are the dashboard summary figures, derived on every read.
type RosterStats struct {
	TotalStaff           int
	ActiveNow            int
	PendingPromotions    int
	PointsIssuedToday    int
	TotalMinutesThisWeek int
}
