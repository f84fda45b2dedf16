package domain

import "time"

// Project is a named container of tasks with a member list. Name uniqueness
// is case-insensitive across all projects.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MemberIDs   []string   `json:"member_ids,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasMember reports whether the user belongs to the project.
func (p *Project) HasMember(userID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
