package domain

import "time"

// RecordType distinguishes raw materials from finished goods in planning exports.
type RecordType string

const (
	RecordTypeRM RecordType = "RM"
	RecordTypeFG RecordType = "FG"
)

// Metric names as they appear in the planning system export. Values are
// matched after trimming, so trailing-whitespace variants collapse here.
const (
	MetricTotalRequirement       = "Tot.Req."
	MetricIndependentRequirement = "Indep. Req. (Forecast)"
	MetricInventoryForecast      = "Tot.Inventory (Forecast)"
	MetricTargetInventory        = "Tot.Target Inv."
)

// PlantOrgs and DCOrgs classify inventory organizations into manufacturing
// plants and distribution centers. Orgs outside both lists are treated as
// generic locations.
var (
	PlantOrgs = []string{"THRYPM", "MYBGPM"}
	DCOrgs    = []string{"THBNDM", "VNHCDM", "VNHNDM", "IDCKDM", "PHPSDM"}
)

// IsPlantOrg reports whether org is a manufacturing plant.
func IsPlantOrg(org string) bool {
	for _, o := range PlantOrgs {
		if o == org {
			return true
		}
	}
	return false
}

// IsDCOrg reports whether org is a distribution center.
func IsDCOrg(org string) bool {
	for _, o := range DCOrgs {
		if o == org {
			return true
		}
	}
	return false
}

// InventoryRecord is a single normalized time-series row: one metric value
// for one item at one org on one day. Records are immutable once parsed.
// Rows sharing (ItemCode, InvOrg, Metric, Date) are summed by consumers,
// never overwritten.
type InventoryRecord struct {
	Factory   string     `json:"factory"`
	Type      RecordType `json:"type"`
	ItemCode  string     `json:"item_code"`
	InvOrg    string     `json:"inv_org"`
	ItemClass string     `json:"item_class"`
	UOM       string     `json:"uom"`
	Strategy  string     `json:"strategy"`
	Metric    string     `json:"metric"`
	Date      time.Time  `json:"date"`
	DateValid bool       `json:"date_valid"`
	Value     float64    `json:"value"`
}

// Key returns the (item, org) grouping key used across the analytic pipeline.
func (r InventoryRecord) Key() string {
	return r.ItemCode + "|" + r.InvOrg
}

// MetricBucket accumulates metric values for one (item, org, day). Missing
// metrics read as 0 so risk arithmetic never branches on presence.
type MetricBucket map[string]float64

// Get returns the accumulated value for a metric, or 0 when absent.
func (b MetricBucket) Get(metric string) float64 {
	return b[metric]
}

// Add accumulates a value into the bucket.
func (b MetricBucket) Add(metric string, value float64) {
	b[metric] += value
}

// RecordFilter selects records by categorical dimensions and an inclusive
// date range. Empty string / nil fields are unconstrained. Records with an
// invalid date never match when either date bound is set.
type RecordFilter struct {
	ItemCode  string     `json:"item_code,omitempty"`
	InvOrg    string     `json:"inv_org,omitempty"`
	ItemClass string     `json:"item_class,omitempty"`
	UOM       string     `json:"uom,omitempty"`
	Strategy  string     `json:"strategy,omitempty"`
	Metrics   []string   `json:"metrics,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// MatchDims reports whether the record passes the categorical filters,
// ignoring the date range and metric set.
func (f RecordFilter) MatchDims(r InventoryRecord) bool {
	if f.ItemCode != "" && r.ItemCode != f.ItemCode {
		return false
	}
	if f.InvOrg != "" && r.InvOrg != f.InvOrg {
		return false
	}
	if f.ItemClass != "" && r.ItemClass != f.ItemClass {
		return false
	}
	if f.UOM != "" && r.UOM != f.UOM {
		return false
	}
	if f.Strategy != "" && r.Strategy != f.Strategy {
		return false
	}
	return true
}

// MatchDate reports whether the record falls inside the inclusive date
// range. Records with invalid dates are excluded whenever a bound is set.
func (f RecordFilter) MatchDate(r InventoryRecord) bool {
	if f.Start == nil && f.End == nil {
		return true
	}
	if !r.DateValid {
		return false
	}
	if f.Start != nil && r.Date.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.Date.After(*f.End) {
		return false
	}
	return true
}

// MatchMetric reports whether the record's metric is in the enabled set.
func (f RecordFilter) MatchMetric(r InventoryRecord) bool {
	if len(f.Metrics) == 0 {
		return true
	}
	for _, m := range f.Metrics {
		if r.Metric == m {
			return true
		}
	}
	return false
}

// Match combines the categorical and date predicates. The metric set is
// intentionally not part of Match: risk classification always needs all
// four risk metrics regardless of which metrics the chart displays.
func (f RecordFilter) Match(r InventoryRecord) bool {
	return f.MatchDims(r) && f.MatchDate(r)
}

// FilterOptions lists the distinct values available per filter dimension.
type FilterOptions struct {
	ItemCodes   []string `json:"item_codes"`
	InvOrgs     []string `json:"inv_orgs"`
	ItemClasses []string `json:"item_classes"`
	UOMs        []string `json:"uoms"`
	Strategies  []string `json:"strategies"`
	Metrics     []string `json:"metrics"`
}

// PivotTable is the metric-by-date detail view for one selected (item, org).
type PivotTable struct {
	ItemCode string                        `json:"item_code"`
	InvOrg   string                        `json:"inv_org"`
	Dates    []string                      `json:"dates"`
	Metrics  []string                      `json:"metrics"`
	Values   map[string]map[string]float64 `json:"values"` // metric -> date -> summed value
}

// TrendPoint is one date bucket of summed metric values for the trend chart.
type TrendPoint struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}
