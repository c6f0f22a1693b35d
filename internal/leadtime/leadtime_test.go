package leadtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andresuchdata/supplyview/backend-go/internal/config"
)

func TestDefaultPolicyWeeks(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		org   string
		weeks int
	}{
		{"IDCKDM", 6},
		{"VNHCDM", 7},
		{"VNHNDM", 7},
		{"THBNDM", 5},
		{"MYBGPM", 5},
		{"THRYPM", 4},
		{"UNKNOWN", 4},
		{"", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.weeks, policy.Weeks(tt.org), "org %q", tt.org)
	}
}

func TestWeeksCaseInsensitive(t *testing.T) {
	policy := DefaultPolicy()
	assert.Equal(t, 6, policy.Weeks("idckdm"))
}

func TestNewPolicyFromConfig(t *testing.T) {
	policy := NewPolicy(config.LeadTimeConfig{
		DefaultWeeks: 2,
		OrgWeeks:     map[string]int{"ababab": 9},
	})

	assert.Equal(t, 9, policy.Weeks("ABABAB"))
	assert.Equal(t, 2, policy.Weeks("OTHER"))
}

func TestBoundary(t *testing.T) {
	policy := DefaultPolicy()
	reference := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), policy.Boundary(reference, "IDCKDM"))
	assert.Equal(t, time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), policy.Boundary(reference, "THRYPM"))
}
