// Package risk implements the shortage risk pipeline: per-day
// classification, contiguous block merging against the lead-time horizon,
// and timeline filtering/ranking.
package risk

import "github.com/andresuchdata/supplyview/backend-go/internal/domain"

// Classify decides the risk state for one (item, org, day) metric bucket.
// Critical takes precedence: demand exceeding the inventory forecast always
// wins over the inventory-below-target early warning. Watch Out only fires
// on days without meaningful requirement, so a shortfall that is merely
// "inventory trailing target" is not flagged while demand is being served.
func Classify(bucket domain.MetricBucket) domain.RiskState {
	requirement := bucket.Get(domain.MetricTotalRequirement) + bucket.Get(domain.MetricIndependentRequirement)
	inventory := bucket.Get(domain.MetricInventoryForecast)
	target := bucket.Get(domain.MetricTargetInventory)

	if requirement > inventory {
		return domain.RiskCritical
	}
	if inventory < target && requirement <= domain.RequirementEpsilon {
		return domain.RiskWatchOut
	}
	return domain.RiskNone
}
