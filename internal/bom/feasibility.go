package bom

import (
	"sort"
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// Project derives the max-producible series for a selected finished good
// from its direct BOM children. For each child, the child's inventory
// forecast is joined by date against the parent's own day-grouped series;
// only days present on both sides produce a point, and the producible
// quantity is childInventory / ratio.
//
// A zero or negative ratio marks the child infeasible instead of dividing:
// the child appears in the result with no points so the caller can surface
// the condition. An item without BOM children returns HasBOM=false.
func Project(records []domain.InventoryRecord, table *Table, itemCode, invOrg string, filter domain.RecordFilter) domain.FeasibilityResult {
	result := domain.FeasibilityResult{
		ItemCode: itemCode,
		InvOrg:   invOrg,
		Children: make([]domain.ChildFeasibility, 0),
	}

	children := table.Children(itemCode, invOrg)
	if len(children) == 0 {
		return result
	}
	result.HasBOM = true

	// Parent days: any metric row for the selected (item, org) in range.
	parentDays := make(map[time.Time]struct{})
	// Child inventory forecast by (child, date), duplicates summed.
	childInventory := make(map[string]map[time.Time]float64)

	for _, r := range records {
		if !filter.MatchDate(r) || !r.DateValid {
			continue
		}
		if r.ItemCode == itemCode && r.InvOrg == invOrg {
			parentDays[r.Date] = struct{}{}
			continue
		}
		if r.Metric != domain.MetricInventoryForecast {
			continue
		}
		if childInventory[r.ItemCode] == nil {
			childInventory[r.ItemCode] = make(map[time.Time]float64)
		}
		childInventory[r.ItemCode][r.Date] += r.Value
	}

	for _, edge := range children {
		child := domain.ChildFeasibility{
			ChildItem: edge.Child,
			Ratio:     edge.Ratio,
			Points:    make([]domain.FeasibilityPoint, 0),
		}
		if edge.Ratio <= 0 {
			child.Infeasible = true
			result.Children = append(result.Children, child)
			continue
		}

		for date, inventory := range childInventory[edge.Child] {
			if _, ok := parentDays[date]; !ok {
				continue
			}
			child.Points = append(child.Points, domain.FeasibilityPoint{
				Date:           date,
				ChildInventory: inventory,
				MaxProducible:  inventory / edge.Ratio,
			})
		}
		sort.Slice(child.Points, func(a, b int) bool {
			return child.Points[a].Date.Before(child.Points[b].Date)
		})
		result.Children = append(result.Children, child)
	}

	return result
}
