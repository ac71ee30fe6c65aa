package domain

import "time"

type Role string

const (
	RoleRegionalLeader Role = "regional-leader"
	RoleTeamLead       Role = "team-lead"
	RoleBDManager      Role = "business-development-manager"
	RoleBD             Role = "business-developer"
	RoleSalesManager   Role = "sales-manager"
	RoleAgent          Role = "agent"
	RoleVendor         Role = "vendor"
	RoleCustomer       Role = "customer"
)

// Valid reports whether r is one of the closed set of roles. Role strings
// arriving over the wire are rejected before they reach storage.
func (r Role) Valid() bool {
	switch r {
	case RoleRegionalLeader, RoleTeamLead, RoleBDManager, RoleBD,
		RoleSalesManager, RoleAgent, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// Leader reports whether members of this role can own a downline and request
// performance reports over it.
func (r Role) Leader() bool {
	switch r {
	case RoleRegionalLeader, RoleTeamLead, RoleBDManager, RoleBD, RoleSalesManager:
		return true
	}
	return false
}

// Member is a person in the hierarchy. A member belongs to at most one team;
// reassignment is a move, never a copy. UplineID is the recruiter edge that
// makes downline enumeration possible.
type Member struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	TeamID    *int32    `json:"team_id,omitempty"`
	UplineID  *int32    `json:"upline_id,omitempty"`
	Active    bool      `json:"active"`
	PinHash   string    `json:"-"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
