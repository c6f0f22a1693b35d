// Package leadtime maps inventory organizations to procurement lead times.
package leadtime

import (
	"strings"
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/config"
)

// Policy is a pure lookup from org code to lead time in weeks. Unmapped
// orgs fall through to DefaultWeeks.
type Policy struct {
	DefaultWeeks int
	OrgWeeks     map[string]int
}

// NewPolicy builds a policy from config, falling back to the stock table
// when config carries nothing.
func NewPolicy(cfg config.LeadTimeConfig) Policy {
	p := Policy{
		DefaultWeeks: cfg.DefaultWeeks,
		OrgWeeks:     make(map[string]int, len(cfg.OrgWeeks)),
	}
	if p.DefaultWeeks <= 0 {
		p.DefaultWeeks = 4
	}
	for org, weeks := range cfg.OrgWeeks {
		p.OrgWeeks[strings.ToUpper(org)] = weeks
	}
	if len(p.OrgWeeks) == 0 {
		p.OrgWeeks = map[string]int{
			"IDCKDM": 6,
			"VNHCDM": 7,
			"VNHNDM": 7,
			"THBNDM": 5,
			"MYBGPM": 5,
		}
	}
	return p
}

// DefaultPolicy returns the stock lead-time table.
func DefaultPolicy() Policy {
	return NewPolicy(config.LeadTimeConfig{})
}

// Weeks returns the lead time for an org in weeks.
func (p Policy) Weeks(invOrg string) int {
	if weeks, ok := p.OrgWeeks[strings.ToUpper(invOrg)]; ok {
		return weeks
	}
	return p.DefaultWeeks
}

// Boundary returns the lead-time horizon for an org: risk starting on or
// before this date cannot be covered by a new procurement order. The
// reference date is injected by the caller so runs are reproducible.
func (p Policy) Boundary(reference time.Time, invOrg string) time.Time {
	return reference.AddDate(0, 0, p.Weeks(invOrg)*7)
}
