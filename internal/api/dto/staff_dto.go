package dto

import "time"

// LogResponse is one performance log line.
type LogResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	IssuedBy  string    `json:"issued_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StaffResponse describes one roster member.
type StaffResponse struct {
	ID              string        `json:"id"`
	ExternalID      int64         `json:"external_id"`
	DisplayName     string        `json:"display_name"`
	Role            string        `json:"role"`
	RoleName        string        `json:"role_name"`
	Status          string        `json:"status"`
	JoinedDate      time.Time     `json:"joined_date"`
	TotalPoints     int           `json:"total_points"`
	TotalMinutes    int           `json:"total_minutes"`
	IsActiveSession bool          `json:"is_active_session"`
	ShiftsCompleted int           `json:"shifts_completed"`
	AvatarRef       string        `json:"avatar_ref"`
	Logs            []LogResponse `json:"logs,omitempty"`
}

// GrantRequest payload for a manual metric grant.
type GrantRequest struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount"`
}

// StatsResponse carries the dashboard aggregates.
type StatsResponse struct {
	TotalStaff           int `json:"total_staff"`
	ActiveNow            int `json:"active_now"`
	PendingPromotions    int `json:"pending_promotions"`
	TotalMinutesThisWeek int `json:"total_minutes_this_week"`
	PointsIssuedToday    int `json:"points_issued_today"`
}
