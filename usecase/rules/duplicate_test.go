package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	existing := []Named{
		{ID: "1", Value: "Backend"},
		{ID: "2", Value: "frontend"},
	}

	tests := []struct {
		name      string
		candidate string
		excludeID string
		want      bool
	}{
		{name: "exact match", candidate: "Backend", want: true},
		{name: "case-insensitive match", candidate: "BACKEND", want: true},
		{name: "no match", candidate: "infra", want: false},
		{name: "own record excluded", candidate: "Backend", excludeID: "1", want: false},
		{name: "excluding other record still collides", candidate: "backend", excludeID: "2", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.candidate, tt.excludeID, existing))
		})
	}
}
