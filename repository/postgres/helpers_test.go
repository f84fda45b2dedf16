package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  interface{}
	}{
		{"zero means unbounded", 0, nil},
		{"negative means unbounded", -1, nil},
		{"page size passes through", 25, 25},
		{"large page size passes through", 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageLimit(tt.limit))
		})
	}
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "abc", nullString("abc"))
}
