package domain

import "time"

// Team is a group of members within a zone. LeadID, when set, must reference
// a member that belongs to this team; a team has at most one lead.
type Team struct {
	ID        int32     `json:"id"`
	ZoneID    int32     `json:"zone_id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	LeadID    *int32    `json:"lead_id,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}

// TeamSummary is a projection over the stored tree: total membership and the
// per-role breakdown of one team, consistent with the latest committed
// mutation.
type TeamSummary struct {
	TeamID       int32           `json:"team_id"`
	TotalMembers int32           `json:"total_members"`
	RoleCounts   map[Role]int32  `json:"role_counts"`
	ActiveCount  int32           `json:"active_count"`
}
