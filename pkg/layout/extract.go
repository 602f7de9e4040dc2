package layout

import "math"

// extract re-introduces the configured inter-node spacing that the builder's
// zero-gap pitch left out, computes the overall bounding box, and writes the
// final location onto every owned node, centered about the origin.
//
// Centering uses the fixed lattice pitch offsets, not each node's own
// half-size; nodes larger than the minimum cell keep asymmetric margins.
func (g *grid) extract() {
	var maxWidth, maxHeight float64
	for j, row := range g.rows {
		for i, ci := range row {
			c := &g.cells[ci]
			c.rect.x += float64(i) * g.minEdge
			// The vertical bound is taken before the row shift, keeping it
			// one row gap tighter than the horizontal one.
			maxHeight = math.Max(maxHeight, c.rect.y+c.rect.h)
			c.rect.y += float64(j) * g.minEdge
			maxWidth = math.Max(maxWidth, c.rect.x+c.rect.w)
		}
	}

	for _, ci := range g.active {
		c := &g.cells[ci]
		c.node.SetLocation(
			MinNodeWidth/2+c.rect.x-maxWidth/2,
			MinNodeHeight/2+c.rect.y-maxHeight/2,
		)
	}
}
