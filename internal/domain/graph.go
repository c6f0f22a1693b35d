package domain

// NodeCategory buckets graph nodes into layout lanes.
type NodeCategory string

const (
	NodeRM    NodeCategory = "RM"
	NodeFG    NodeCategory = "FG"
	NodeDC    NodeCategory = "DC"
	NodeOther NodeCategory = "Other"
)

// RelationKind labels graph edges by how they were derived.
type RelationKind string

const (
	// RelationFlow covers direct BOM lines and item-to-DC material flows.
	RelationFlow RelationKind = "flow"
	// RelationSameClass and RelationSameStrategy are cluster edges linking
	// members of the same item class / planning strategy group.
	RelationSameClass    RelationKind = "sameClass"
	RelationSameStrategy RelationKind = "sameStrategy"
)

// LinkDimension selects which categorical dimension drives cluster edges.
type LinkDimension string

const (
	LinkByItemClass LinkDimension = "itemClass"
	LinkByStrategy  LinkDimension = "strategy"
)

// GraphNode is one vertex of the relationship graph. Positions are
// deterministic for identical inputs so re-renders stay stable.
type GraphNode struct {
	ID           string             `json:"id"`
	Label        string             `json:"label"`
	Category     NodeCategory       `json:"category"`
	InvOrg       string             `json:"inv_org"`
	Value        float64            `json:"value"`
	MetricTotals map[string]float64 `json:"metric_totals"`
	Degree       int                `json:"degree"`
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
}

// GraphEdge connects two nodes by ID.
type GraphEdge struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Weight float64      `json:"weight"`
	Kind   RelationKind `json:"kind"`
}

// Graph is the fully recomputed node/edge set for the network view.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphConfig controls graph derivation. Metric empty means all metrics
// combined.
type GraphConfig struct {
	LinkDimension LinkDimension `json:"link_dimension"`
	Metric        string        `json:"metric,omitempty"`
	HideOrphans   bool          `json:"hide_orphans"`
}

// ParseLinkDimension defaults to itemClass for unrecognized values.
func ParseLinkDimension(s string) LinkDimension {
	if LinkDimension(s) == LinkByStrategy {
		return LinkByStrategy
	}
	return LinkByItemClass
}
