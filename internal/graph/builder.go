// Package graph derives the relationship graph (raw material → finished
// good → distribution center) from the filtered record set and the BOM
// table. The graph is recomputed from scratch on every input change; no
// node identity survives across builds.
package graph

import (
	"math"
	"sort"

	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// clusterRingCap bounds cluster edges per linking-dimension group: only the
// first clusterRingCap members (sorted by ID) join the ring, so a large
// group cannot blow up the edge count quadratically.
const clusterRingCap = 8

// clusterEdgeWeight is the fixed low weight for cluster edges; flow edges
// carry accumulated metric weight and dominate visually.
const clusterEdgeWeight = 1.0

// minFlowWeight keeps degenerate flow edges visible.
const minFlowWeight = 1.0

type nodeAccumulator struct {
	node      domain.GraphNode
	itemClass string
	strategy  string
	absValue  float64
}

// Build assembles the node/edge graph for the given records and BOM table.
func Build(records []domain.InventoryRecord, table *bom.Table, cfg domain.GraphConfig) domain.Graph {
	items := make(map[string]*nodeAccumulator)
	dcOrgs := make(map[string]struct{})

	for _, r := range records {
		key := r.Key()
		acc, ok := items[key]
		if !ok {
			acc = &nodeAccumulator{
				node: domain.GraphNode{
					ID:           key,
					Label:        r.ItemCode,
					Category:     categoryFor(r.Type),
					InvOrg:       r.InvOrg,
					MetricTotals: make(map[string]float64),
				},
				itemClass: r.ItemClass,
				strategy:  r.Strategy,
			}
			items[key] = acc
		}
		acc.node.MetricTotals[r.Metric] += r.Value
		if cfg.Metric == "" || cfg.Metric == r.Metric {
			acc.node.Value += r.Value
			acc.absValue += math.Abs(r.Value)
		}
		if domain.IsDCOrg(r.InvOrg) {
			dcOrgs[r.InvOrg] = struct{}{}
		}
	}

	// Deterministic node order: sorted item keys, then sorted DC orgs.
	itemKeys := make([]string, 0, len(items))
	for key := range items {
		itemKeys = append(itemKeys, key)
	}
	sort.Strings(itemKeys)

	nodes := make([]domain.GraphNode, 0, len(items)+len(dcOrgs))
	nodeIndex := make(map[string]int)
	for _, key := range itemKeys {
		nodeIndex[key] = len(nodes)
		nodes = append(nodes, items[key].node)
	}

	dcKeys := make([]string, 0, len(dcOrgs))
	for org := range dcOrgs {
		dcKeys = append(dcKeys, org)
	}
	sort.Strings(dcKeys)
	for _, org := range dcKeys {
		id := "dc|" + org
		nodeIndex[id] = len(nodes)
		nodes = append(nodes, domain.GraphNode{
			ID:           id,
			Label:        org,
			Category:     domain.NodeDC,
			InvOrg:       org,
			MetricTotals: make(map[string]float64),
		})
	}

	edges := make([]domain.GraphEdge, 0)
	addEdge := func(source, target string, weight float64, kind domain.RelationKind) {
		if _, ok := nodeIndex[source]; !ok {
			return
		}
		if _, ok := nodeIndex[target]; !ok {
			return
		}
		edges = append(edges, domain.GraphEdge{Source: source, Target: target, Weight: weight, Kind: kind})
	}

	// Flow edges: each item stocked at a DC flows into that DC endpoint,
	// weighted by its accumulated absolute metric contribution.
	for _, key := range itemKeys {
		acc := items[key]
		if !domain.IsDCOrg(acc.node.InvOrg) {
			continue
		}
		weight := acc.absValue
		if weight < minFlowWeight {
			weight = minFlowWeight
		}
		addEdge(key, "dc|"+acc.node.InvOrg, weight, domain.RelationFlow)
	}

	// Flow edges from direct BOM lines, between every stocked location pair
	// of parent and child. Edges whose endpoints were filtered out of the
	// record set drop silently.
	for _, bomEdge := range table.Edges() {
		weight := bomEdge.Ratio
		if weight < minFlowWeight {
			weight = minFlowWeight
		}
		for _, parentKey := range keysForItem(itemKeys, bomEdge.Parent) {
			for _, childKey := range keysForItem(itemKeys, bomEdge.Child) {
				addEdge(parentKey, childKey, weight, domain.RelationFlow)
			}
		}
	}

	// Cluster edges: ring over the first members of each linking-dimension
	// group, not a clique, to bound edge count.
	kind := domain.RelationSameClass
	if cfg.LinkDimension == domain.LinkByStrategy {
		kind = domain.RelationSameStrategy
	}
	groups := make(map[string][]string)
	for _, key := range itemKeys {
		acc := items[key]
		dim := acc.itemClass
		if cfg.LinkDimension == domain.LinkByStrategy {
			dim = acc.strategy
		}
		if dim == "" {
			continue
		}
		groups[dim] = append(groups[dim], key)
	}
	groupNames := make([]string, 0, len(groups))
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)
	for _, name := range groupNames {
		members := groups[name]
		if len(members) < 2 {
			continue
		}
		if len(members) > clusterRingCap {
			members = members[:clusterRingCap]
		}
		for i := 0; i < len(members)-1; i++ {
			addEdge(members[i], members[i+1], clusterEdgeWeight, kind)
		}
		if len(members) > 2 {
			addEdge(members[len(members)-1], members[0], clusterEdgeWeight, kind)
		}
	}

	for _, e := range edges {
		nodes[nodeIndex[e.Source]].Degree++
		nodes[nodeIndex[e.Target]].Degree++
	}

	if cfg.HideOrphans {
		nodes, edges = dropOrphans(nodes, edges)
	}

	for i := range nodes {
		nodes[i].X, nodes[i].Y = position(nodes[i].ID, nodes[i].Category)
	}

	return domain.Graph{Nodes: nodes, Edges: edges}
}

func categoryFor(t domain.RecordType) domain.NodeCategory {
	switch t {
	case domain.RecordTypeRM:
		return domain.NodeRM
	case domain.RecordTypeFG:
		return domain.NodeFG
	default:
		return domain.NodeOther
	}
}

// keysForItem returns the node keys whose item-code prefix matches item.
// Keys are "itemCode|invOrg", so one item stocked at several orgs yields
// several keys.
func keysForItem(sortedKeys []string, item string) []string {
	prefix := item + "|"
	start := sort.SearchStrings(sortedKeys, prefix)
	out := make([]string, 0, 2)
	for i := start; i < len(sortedKeys); i++ {
		if len(sortedKeys[i]) < len(prefix) || sortedKeys[i][:len(prefix)] != prefix {
			break
		}
		out = append(out, sortedKeys[i])
	}
	return out
}

// dropOrphans removes degree-0 nodes and any edge referencing a removed
// node.
func dropOrphans(nodes []domain.GraphNode, edges []domain.GraphEdge) ([]domain.GraphNode, []domain.GraphEdge) {
	kept := make([]domain.GraphNode, 0, len(nodes))
	keptIDs := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Degree == 0 {
			continue
		}
		kept = append(kept, n)
		keptIDs[n.ID] = struct{}{}
	}

	keptEdges := make([]domain.GraphEdge, 0, len(edges))
	for _, e := range edges {
		if _, ok := keptIDs[e.Source]; !ok {
			continue
		}
		if _, ok := keptIDs[e.Target]; !ok {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	return kept, keptEdges
}
