package domain

import "time"

// BomEdge is one bill-of-materials line: producing one unit of Parent
// consumes Ratio units of Child. Plant optionally scopes the line to one
// manufacturing org; empty means valid at every plant.
type BomEdge struct {
	Parent string  `json:"parent"`
	Child  string  `json:"child"`
	Ratio  float64 `json:"ratio"`
	Plant  string  `json:"plant,omitempty"`
}

// FeasibilityPoint is the producible quantity implied by one child's
// inventory forecast on one day.
type FeasibilityPoint struct {
	Date           time.Time `json:"date"`
	ChildInventory float64   `json:"child_inventory"`
	MaxProducible  float64   `json:"max_producible"`
}

// ChildFeasibility is the independently keyed feasibility series one BOM
// child contributes for the selected parent. A zero or negative ratio makes
// the child infeasible: no points are emitted and Infeasible is set so the
// caller can render the condition instead of a silently empty series.
type ChildFeasibility struct {
	ChildItem  string             `json:"child_item"`
	Ratio      float64            `json:"ratio"`
	Infeasible bool               `json:"infeasible"`
	Points     []FeasibilityPoint `json:"points"`
}

// FeasibilityResult is the BOM projection for one selected finished good.
// HasBOM is false when the BOM table lists no children for the item, which
// the caller renders as an explicit "no BOM" state.
type FeasibilityResult struct {
	ItemCode string             `json:"item_code"`
	InvOrg   string             `json:"inv_org"`
	HasBOM   bool               `json:"has_bom"`
	Children []ChildFeasibility `json:"children"`
}
