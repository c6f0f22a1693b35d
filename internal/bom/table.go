// Package bom indexes bill-of-materials edges and projects raw-material
// inventory into finished-good production capacity.
package bom

import (
	"sync"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// Table is a swap-on-load BOM edge index keyed both ways.
type Table struct {
	mu       sync.RWMutex
	edges    []domain.BomEdge
	byParent map[string][]domain.BomEdge
	byChild  map[string][]domain.BomEdge
}

func NewTable() *Table {
	t := &Table{}
	t.Replace(nil)
	return t
}

// Replace swaps in a new edge set. Edges missing a parent or child are
// malformed and dropped here, before anything downstream can see them.
func (t *Table) Replace(edges []domain.BomEdge) {
	byParent := make(map[string][]domain.BomEdge)
	byChild := make(map[string][]domain.BomEdge)
	kept := make([]domain.BomEdge, 0, len(edges))

	for _, e := range edges {
		if e.Parent == "" || e.Child == "" {
			continue
		}
		kept = append(kept, e)
		byParent[e.Parent] = append(byParent[e.Parent], e)
		byChild[e.Child] = append(byChild[e.Child], e)
	}

	t.mu.Lock()
	t.edges = kept
	t.byParent = byParent
	t.byChild = byChild
	t.mu.Unlock()
}

// Edges returns every valid edge in the table.
func (t *Table) Edges() []domain.BomEdge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.BomEdge, len(t.edges))
	copy(out, t.edges)
	return out
}

// Children returns the direct child edges of a parent item, optionally
// scoped to one plant. Edges with an empty plant apply everywhere.
func (t *Table) Children(parent, plant string) []domain.BomEdge {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.BomEdge, 0)
	for _, e := range t.byParent[parent] {
		if plant != "" && e.Plant != "" && e.Plant != plant {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Parents returns the edges consuming a child item.
func (t *Table) Parents(child string) []domain.BomEdge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.BomEdge, len(t.byChild[child]))
	copy(out, t.byChild[child])
	return out
}

// IsParent reports whether the item appears as a BOM parent.
func (t *Table) IsParent(item string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byParent[item]) > 0
}

// IsChild reports whether the item appears as a BOM child.
func (t *Table) IsChild(item string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byChild[item]) > 0
}
