package domain

import "time"

// RiskState classifies one (item, org, day) tuple.
type RiskState string

const (
	RiskNone     RiskState = ""
	RiskCritical RiskState = "Critical"
	RiskWatchOut RiskState = "Watch Out"
)

// RequirementEpsilon guards the Watch Out requirement check against
// floating-point noise in summed requirement values.
const RequirementEpsilon = 0.001

// ShortageBlock is a maximal run of consecutive at-risk days sharing one
// state for one (item, org). Days counts only the days actually folded into
// the block; gaps tolerated by the merger do not inflate it.
type ShortageBlock struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	State RiskState `json:"state"`
	Days  int       `json:"days"`
}

// ItemRiskGroup is the risk timeline row for one (item, org) pair.
// FirstOutsideLeadTimeRisk is nil when every at-risk day falls inside the
// lead-time horizon.
type ItemRiskGroup struct {
	ItemCode                 string          `json:"item_code"`
	InvOrg                   string          `json:"inv_org"`
	Blocks                   []ShortageBlock `json:"blocks"`
	TotalShortageDays        int             `json:"total_shortage_days"`
	HasInsideLeadTimeRisk    bool            `json:"has_inside_lead_time_risk"`
	FirstOutsideLeadTimeRisk *time.Time      `json:"first_outside_lead_time_risk,omitempty"`
}

// RiskFilter controls which shortage blocks survive into the timeline.
type RiskFilter struct {
	IncludeCritical    bool `json:"include_critical"`
	IncludeWatchOut    bool `json:"include_watch_out"`
	MinConsecutiveDays int  `json:"min_consecutive_days"`
}

// DefaultRiskFilter matches every block: both states on, minimum one day.
func DefaultRiskFilter() RiskFilter {
	return RiskFilter{IncludeCritical: true, IncludeWatchOut: true, MinConsecutiveDays: 1}
}

// SortMode selects the ordering strategy for timeline rows.
type SortMode string

const (
	SortByItemCode SortMode = "itemCode"
	SortByLeadTime SortMode = "leadTime"
	SortByDuration SortMode = "duration"
	SortByPlanning SortMode = "planning"
)

// ParseSortMode maps a request value onto a known mode, defaulting to
// itemCode ordering for anything unrecognized.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortByLeadTime, SortByDuration, SortByPlanning:
		return SortMode(s)
	default:
		return SortByItemCode
	}
}
