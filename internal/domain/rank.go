package domain

import "time"

// RoleID identifies an internal job rank. It is an opaque identifier; display
// names are resolved through the role registry, never parsed from the value.
type RoleID string

const (
	RoleChiefExecutive RoleID = "chief_executive"
	RoleHRDirector     RoleID = "hr_director"
	RoleManager        RoleID = "manager"
	RoleSupervisor     RoleID = "supervisor"
	RoleSeniorStaff    RoleID = "senior_staff"
	RoleJuniorStaff    RoleID = "junior_staff"
	RoleTrainee        RoleID = "trainee"
)

// Role describes one internal job rank.
type Role struct {
	ID   RoleID
	Name string
}

// DefaultRoles is the internal rank ladder, highest precedence first.
var DefaultRoles = []Role{
	{ID: RoleChiefExecutive, Name: "Chief Executive Officer"},
	{ID: RoleHRDirector, Name: "HR Director"},
	{ID: RoleManager, Name: "Manager"},
	{ID: RoleSupervisor, Name: "Supervisor"},
	{ID: RoleSeniorStaff, Name: "Senior Staff"},
	{ID: RoleJuniorStaff, Name: "Junior Staff"},
	{ID: RoleTrainee, Name: "Trainee"},
}

// RoleName resolves a role id to its display name, falling back to the raw id
// for unregistered values.
func RoleName(id RoleID) string {
	for _, r := range DefaultRoles {
		if r.ID == id {
			return r.Name
		}
	}
	return string(id)
}

// IsKnownRole reports whether the role id is part of the internal ladder.
func IsKnownRole(id RoleID) bool {
	for _, r := range DefaultRoles {
		if r.ID == id {
			return true
		}
	}
	return false
}

// RankMapping associates one external rank id with an internal role.
type RankMapping struct {
	ExternalRankID int
	InternalRoleID RoleID
	Label          string
}

// GroupLink records the external group an instance is bound to, together with
// its rank mapping table. Mappings keep discovery order; the last entry acts
// as the catch-all during resolution.
type GroupLink struct {
	ID       string
	GroupID  int64
	Name     string
	LinkedAt time.Time
	Mappings []RankMapping
}

// ExternalRank is one rank as reported by the external roster source.
type ExternalRank struct {
	RankID      int
	Name        string
	MemberCount int
}
