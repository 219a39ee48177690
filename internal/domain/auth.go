package domain

import "time"

// AuthRole differentiates administrator and staff sessions.
type AuthRole string

const (
	AuthRoleAdmin AuthRole = "ADMIN"
	AuthRoleStaff AuthRole = "STAFF"
)

// AuthUser is an authenticated dashboard operator.
type AuthUser struct {
	ID        string
	Username  string
	Role      AuthRole
	LastLogin time.Time
}
