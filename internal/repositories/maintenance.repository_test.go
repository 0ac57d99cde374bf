package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause_Defaults(t *testing.T) {
	assert.Equal(t, "created_at DESC", orderClause(MaintenanceSort{}))
	assert.Equal(t, "created_at DESC", orderClause(MaintenanceSort{Field: "createdAt"}))
}

func TestOrderClause_WhitelistsFields(t *testing.T) {
	tests := []struct {
		name     string
		sort     MaintenanceSort
		expected string
	}{
		{"known field ascending", MaintenanceSort{Field: "priority", Direction: "asc"}, "priority ASC"},
		{"known field descending", MaintenanceSort{Field: "scheduledDate", Direction: "desc"}, "scheduled_date DESC"},
		{"unknown field falls back", MaintenanceSort{Field: "evil; DROP TABLE", Direction: "asc"}, "created_at ASC"},
		{"unknown direction falls back", MaintenanceSort{Field: "status", Direction: "sideways"}, "status DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.sort))
		})
	}
}
