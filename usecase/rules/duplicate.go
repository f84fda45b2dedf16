package rules

import "strings"

// Named pairs a record id with the value subject to the uniqueness check.
type Named struct {
	ID    string
	Value string
}

// IsDuplicate reports whether candidate collides case-insensitively with any
// existing value. excludeID skips the record being updated so a record never
// collides with itself.
func IsDuplicate(candidate, excludeID string, existing []Named) bool {
	for _, n := range existing {
		if n.ID == excludeID {
			continue
		}
		if strings.EqualFold(n.Value, candidate) {
			return true
		}
	}
	return false
}
