package graph

import (
	"hash/fnv"
	"math"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

// Layout constants. Categories occupy distinct horizontal bands so raw
// materials, finished goods and distribution centers never interleave
// vertically; within a band, a node's position comes from a stable hash of
// its ID, keeping re-renders byte-identical for identical inputs.
const (
	layoutWidth  = 1600.0
	laneHeight   = 220.0
	laneMarginY  = 40.0
	jitterHeight = laneHeight - 2*laneMarginY
)

var laneOrder = map[domain.NodeCategory]int{
	domain.NodeRM:    0,
	domain.NodeFG:    1,
	domain.NodeDC:    2,
	domain.NodeOther: 3,
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// position returns deterministic 2-D coordinates for a node ID within its
// category lane. The hash spreads nodes across the lane width via an angle
// so clusters of similar IDs do not pile onto the left edge.
func position(id string, category domain.NodeCategory) (x, y float64) {
	h := hash64(id)
	angle := float64(h%3600) / 3600.0 * 2 * math.Pi
	x = (math.Cos(angle) + 1) / 2 * layoutWidth

	lane, ok := laneOrder[category]
	if !ok {
		lane = laneOrder[domain.NodeOther]
	}
	jitter := float64((h>>16)%1000) / 1000.0 * jitterHeight
	y = float64(lane)*laneHeight + laneMarginY + jitter
	return x, y
}
