package risk

import (
	"sort"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// ApplyFilter retains only the blocks matching the enabled states and the
// minimum run length, and recomputes the group's total shortage days from
// the survivors. It returns false when no block survives, in which case the
// group must be dropped from the timeline.
func ApplyFilter(group *domain.ItemRiskGroup, filter domain.RiskFilter) bool {
	minDays := filter.MinConsecutiveDays
	if minDays < 1 {
		minDays = 1
	}

	kept := group.Blocks[:0]
	total := 0
	for _, block := range group.Blocks {
		if block.Days < minDays {
			continue
		}
		if block.State == domain.RiskCritical && !filter.IncludeCritical {
			continue
		}
		if block.State == domain.RiskWatchOut && !filter.IncludeWatchOut {
			continue
		}
		kept = append(kept, block)
		total += block.Days
	}

	group.Blocks = kept
	group.TotalShortageDays = total
	return len(kept) > 0
}

// SortGroups orders timeline rows by the selected strategy. The sort is
// stable, so ties keep the groups' discovery order; callers emit groups in
// sorted (item, org) key order to make that order deterministic.
func SortGroups(groups []domain.ItemRiskGroup, mode domain.SortMode) {
	var less func(a, b domain.ItemRiskGroup) bool

	switch mode {
	case domain.SortByLeadTime:
		// Inside-lead-time risk first, longest shortage within each bucket.
		less = func(a, b domain.ItemRiskGroup) bool {
			if a.HasInsideLeadTimeRisk != b.HasInsideLeadTimeRisk {
				return a.HasInsideLeadTimeRisk
			}
			return a.TotalShortageDays > b.TotalShortageDays
		}
	case domain.SortByDuration:
		less = func(a, b domain.ItemRiskGroup) bool {
			return a.TotalShortageDays > b.TotalShortageDays
		}
	case domain.SortByPlanning:
		// Earliest risk beyond the horizon first; groups with none sort last.
		less = func(a, b domain.ItemRiskGroup) bool {
			switch {
			case a.FirstOutsideLeadTimeRisk == nil:
				return false
			case b.FirstOutsideLeadTimeRisk == nil:
				return true
			default:
				return a.FirstOutsideLeadTimeRisk.Before(*b.FirstOutsideLeadTimeRisk)
			}
		}
	default:
		less = func(a, b domain.ItemRiskGroup) bool {
			return a.ItemCode < b.ItemCode
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return less(groups[i], groups[j])
	})
}
