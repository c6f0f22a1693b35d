package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

func day(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

func rec(item, org string, typ domain.RecordType, class, strategy, metric string, date string, value float64) domain.InventoryRecord {
	d, ok := day(date)
	return domain.InventoryRecord{
		Type:      typ,
		ItemCode:  item,
		InvOrg:    org,
		ItemClass: class,
		Strategy:  strategy,
		Metric:    metric,
		Date:      d,
		DateValid: ok,
		Value:     value,
	}
}

func TestBuildFlowEdgesToDC(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "MTS", domain.MetricTotalRequirement, "2026-01-05", 120),
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "MTS", domain.MetricTotalRequirement, "2026-01-06", -30),
		rec("RM-1", "THRYPM", domain.RecordTypeRM, "B", "MTO", domain.MetricTotalRequirement, "2026-01-05", 10),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{LinkDimension: domain.LinkByItemClass})

	ids := make(map[string]domain.GraphNode)
	for _, n := range g.Nodes {
		ids[n.ID] = n
	}
	require.Contains(t, ids, "FG-1|VNHCDM")
	require.Contains(t, ids, "RM-1|THRYPM")
	require.Contains(t, ids, "dc|VNHCDM")
	assert.Equal(t, domain.NodeDC, ids["dc|VNHCDM"].Category)
	assert.Equal(t, domain.NodeFG, ids["FG-1|VNHCDM"].Category)

	require.Len(t, g.Edges, 1)
	e := g.Edges[0]
	assert.Equal(t, "FG-1|VNHCDM", e.Source)
	assert.Equal(t, "dc|VNHCDM", e.Target)
	assert.Equal(t, domain.RelationFlow, e.Kind)
	// abs(120) + abs(-30)
	assert.InDelta(t, 150, e.Weight, 1e-9)
}

func TestBuildFlowWeightFloor(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "THBNDM", domain.RecordTypeFG, "A", "MTS", domain.MetricTotalRequirement, "2026-01-05", 0.2),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, 1.0, g.Edges[0].Weight)
}

func TestBuildBomFlowEdges(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "THRYPM", domain.RecordTypeFG, "A", "MTS", domain.MetricInventoryForecast, "2026-01-05", 100),
		rec("RM-1", "THRYPM", domain.RecordTypeRM, "B", "MTO", domain.MetricInventoryForecast, "2026-01-05", 400),
	}
	table := bom.NewTable()
	table.Replace([]domain.BomEdge{{Parent: "FG-1", Child: "RM-1", Ratio: 2.5}})

	g := Build(records, table, domain.GraphConfig{})

	var found bool
	for _, e := range g.Edges {
		if e.Source == "FG-1|THRYPM" && e.Target == "RM-1|THRYPM" {
			found = true
			assert.Equal(t, domain.RelationFlow, e.Kind)
			assert.InDelta(t, 2.5, e.Weight, 1e-9)
		}
	}
	assert.True(t, found, "expected a flow edge for the BOM line")
}

func TestBuildClusterRing(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("A", "THRYPM", domain.RecordTypeRM, "cls", "", domain.MetricTotalRequirement, "2026-01-05", 1),
		rec("B", "THRYPM", domain.RecordTypeRM, "cls", "", domain.MetricTotalRequirement, "2026-01-05", 1),
		rec("C", "THRYPM", domain.RecordTypeRM, "cls", "", domain.MetricTotalRequirement, "2026-01-05", 1),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{LinkDimension: domain.LinkByItemClass})

	cluster := 0
	for _, e := range g.Edges {
		if e.Kind == domain.RelationSameClass {
			cluster++
		}
	}
	// Three members form a closed ring.
	assert.Equal(t, 3, cluster)
}

func TestBuildClusterPairNoDuplicate(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("A", "THRYPM", domain.RecordTypeRM, "cls", "", domain.MetricTotalRequirement, "2026-01-05", 1),
		rec("B", "THRYPM", domain.RecordTypeRM, "cls", "", domain.MetricTotalRequirement, "2026-01-05", 1),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{LinkDimension: domain.LinkByItemClass})

	cluster := 0
	for _, e := range g.Edges {
		if e.Kind == domain.RelationSameClass {
			cluster++
		}
	}
	assert.Equal(t, 1, cluster)
}

func TestBuildHideOrphans(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "", domain.MetricTotalRequirement, "2026-01-05", 10),
		rec("LONER", "THRYPM", domain.RecordTypeRM, "B", "", domain.MetricTotalRequirement, "2026-01-05", 10),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{HideOrphans: true})

	for _, n := range g.Nodes {
		assert.NotEqual(t, "LONER|THRYPM", n.ID)
		assert.Greater(t, n.Degree, 0)
	}
}

func TestBuildMetricSelection(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "", domain.MetricTotalRequirement, "2026-01-05", 10),
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "", domain.MetricTargetInventory, "2026-01-05", 99),
	}

	g := Build(records, bom.NewTable(), domain.GraphConfig{Metric: domain.MetricTotalRequirement})

	for _, n := range g.Nodes {
		if n.ID == "FG-1|VNHCDM" {
			assert.InDelta(t, 10, n.Value, 1e-9)
			assert.InDelta(t, 99, n.MetricTotals[domain.MetricTargetInventory], 1e-9)
		}
	}
}

func TestBuildDeterministicPositions(t *testing.T) {
	records := []domain.InventoryRecord{
		rec("FG-1", "VNHCDM", domain.RecordTypeFG, "A", "", domain.MetricTotalRequirement, "2026-01-05", 10),
		rec("RM-1", "THRYPM", domain.RecordTypeRM, "B", "", domain.MetricTotalRequirement, "2026-01-05", 5),
	}

	a := Build(records, bom.NewTable(), domain.GraphConfig{})
	b := Build(records, bom.NewTable(), domain.GraphConfig{})

	require.Equal(t, len(a.Nodes), len(b.Nodes))
	for i := range a.Nodes {
		assert.Equal(t, a.Nodes[i].ID, b.Nodes[i].ID)
		assert.Equal(t, a.Nodes[i].X, b.Nodes[i].X)
		assert.Equal(t, a.Nodes[i].Y, b.Nodes[i].Y)
	}
}
