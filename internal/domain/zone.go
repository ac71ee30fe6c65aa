package domain

import "time"

// Zone is the top-level administrative grouping. Zones are created by
// regional administration and are never deleted while teams reference them.
type Zone struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedOn time.Time `json:"created_on"`
}
