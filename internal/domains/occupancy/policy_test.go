package occupancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos/internal/domains/occupancy"
)

func TestReleasePolicy_ShouldRelease(t *testing.T) {
	policy := occupancy.NewReleasePolicy()

	tests := []struct {
		name     string
		statuses []string
		want     bool
	}{
		{name: "no orders", statuses: nil, want: false},
		{name: "all served", statuses: []string{"served", "served"}, want: true},
		{name: "mixed settled statuses", statuses: []string{"served", "paid", "completed"}, want: true},
		{name: "one still running", statuses: []string{"served", "running"}, want: false},
		{name: "pending order blocks", statuses: []string{"pending"}, want: false},
		{name: "cancelled order blocks release", statuses: []string{"cancelled", "served"}, want: false},
		{name: "only cancelled orders", statuses: []string{"cancelled", "cancelled"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldRelease(tt.statuses))
		})
	}
}
