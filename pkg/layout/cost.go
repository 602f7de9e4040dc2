package layout

import "math"

// distance returns the Manhattan distance between the centers of two cells,
// using each cell's current rect rather than the owned node's true size.
func (g *grid) distance(a, b int) float64 {
	ra, rb := &g.cells[a].rect, &g.cells[b].rect
	dx := math.Abs(ra.x + ra.w/2 - rb.x - rb.w/2)
	dy := math.Abs(ra.y + ra.h/2 - rb.y - rb.h/2)
	return dx + dy
}

// connectionCost sums the distances from a cell to each cell in conns.
func (g *grid) connectionCost(ci int, conns []int) float64 {
	var cost float64
	for _, other := range conns {
		cost += g.distance(ci, other)
	}
	return cost
}

// outCost is the summed distance along the cell's outgoing edges. Summing
// outCost over all active cells counts each directed edge exactly once.
func (g *grid) outCost(ci int) float64 {
	return g.connectionCost(ci, g.cells[ci].out)
}

// compoundCost is the summed distance along both incoming and outgoing
// edges. A relocation affects both directions of adjacency, so candidate
// moves are evaluated with this instead of outCost.
func (g *grid) compoundCost(ci int) float64 {
	return g.connectionCost(ci, g.cells[ci].in) + g.connectionCost(ci, g.cells[ci].out)
}

// totalCost is the aggregate connection cost of the whole lattice.
func (g *grid) totalCost() float64 {
	var cost float64
	for _, ci := range g.active {
		cost += g.outCost(ci)
	}
	return cost
}
