package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Minimum node footprint of the editor. Every lattice cell uses this pitch
// regardless of the actual node size; the extractor re-centers nodes about
// the cell using the same fixed dimensions.
const (
	// MinNodeWidth is the fixed lattice cell width.
	MinNodeWidth = 50.0
	// MinNodeHeight is the fixed lattice cell height.
	MinNodeHeight = 75.0
)

var (
	// ErrInvalidAspectRatio is returned by [Optimizer.Initialize] when the
	// aspect ratio is zero or negative.
	ErrInvalidAspectRatio = errors.New("aspect ratio must be positive")

	// ErrZeroArea is returned by [Optimizer.Initialize] when the aggregate
	// node footprint has no area, which would make the lattice dimensions
	// degenerate.
	ErrZeroArea = errors.New("aggregate node footprint has zero area")

	// ErrUnplacedNode is returned by [Optimizer.Initialize] when an edge
	// references a node index that was never assigned a lattice cell. This
	// is a caller contract violation: the edge list must only reference
	// nodes present in the graph's node list.
	ErrUnplacedNode = errors.New("edge references a node without a cell")

	// ErrNotInitialized is returned by [Optimizer.Optimize] and
	// [Optimizer.Extract] when Initialize has not been called.
	ErrNotInitialized = errors.New("optimizer not initialized")
)

// rect is a lattice cell rectangle. During optimization w and h are always
// the fixed minimum pitch; x and y move as cells swap slots.
type rect struct {
	x, y, w, h float64
}

// cell is one lattice slot. Cells are stored in a flat arena on the grid and
// referenced by index everywhere, including the in/out adjacency lists.
// A cell with a nil node participates in topology but contributes no cost.
type cell struct {
	node *mindmap.Node
	in   []int // arena indices of cells with an edge into this one
	out  []int // arena indices of cells this one has an edge to

	rect  rect
	stash rect // previous rect, kept so a tentative move can be reverted
}

// grid is the whole lattice: a cell arena, rows of slot→arena indices, and
// the flat list of active (node-holding) cells in cost-summation order.
// The cell count is fixed at build time and invariant across swaps; only the
// slot assignment in rows and the cell rects change during optimization.
type grid struct {
	cells   []cell
	rows    [][]int // rows[j][i] = arena index of the cell in slot i of row j
	active  []int
	minEdge float64
}

// buildGrid computes the lattice dimensions from the aggregate node
// footprint, places every node into a cell (consuming the node list from the
// end, row-major), and wires directed cell adjacency from the edge list.
func buildGrid(nodes []*mindmap.Node, edges []mindmap.Edge, aspectRatio, minEdgeLength float64) (*grid, error) {
	if aspectRatio <= 0 {
		return nil, ErrInvalidAspectRatio
	}
	if len(nodes) == 0 {
		// Nothing to place; Optimize and Extract are no-ops on an empty
		// lattice.
		return &grid{minEdge: minEdgeLength}, nil
	}

	var area float64
	for _, n := range nodes {
		area += (n.Size.W + minEdgeLength) * (n.Size.H + minEdgeLength)
	}
	if area <= 0 {
		return nil, fmt.Errorf("%w: %d nodes", ErrZeroArea, len(nodes))
	}

	height := math.Sqrt(area / aspectRatio)
	width := area / height

	// The +1 guarantees at least one row and column.
	rows := int(height/(MinNodeHeight+minEdgeLength)) + 1
	cols := int(width/(MinNodeWidth+minEdgeLength)) + 1

	// Nodes smaller than the lattice pitch contribute less area than the
	// cell they occupy, so the estimate above can come up short. Grow the
	// lattice toward the requested aspect until every node has a slot.
	for rows*cols < len(nodes) {
		if float64(cols)/float64(rows) < aspectRatio {
			cols++
		} else {
			rows++
		}
	}

	gr := &grid{
		cells:   make([]cell, 0, rows*cols),
		rows:    make([][]int, rows),
		minEdge: minEdgeLength,
	}

	// Cells sit on a zero-gap pitch; the extractor re-introduces the
	// configured spacing at the end. The node list is consumed from the end
	// in row-major cell order; any deterministic assignment works, this is
	// the fixed convention.
	nodes = slices.Clone(nodes)
	cellForNode := make(map[int]int, len(nodes))
	for j := 0; j < rows; j++ {
		row := make([]int, cols)
		for i := 0; i < cols; i++ {
			ci := len(gr.cells)
			c := cell{
				rect: rect{
					x: float64(i) * MinNodeWidth,
					y: float64(j) * MinNodeHeight,
					w: MinNodeWidth,
					h: MinNodeHeight,
				},
			}
			if len(nodes) > 0 {
				c.node = nodes[len(nodes)-1]
				nodes = nodes[:len(nodes)-1]
				cellForNode[c.node.Index] = ci
				gr.active = append(gr.active, ci)
			}
			gr.cells = append(gr.cells, c)
			row[i] = ci
		}
		gr.rows[j] = row
	}

	for _, e := range edges {
		src, ok := cellForNode[e.SourceIndex]
		if !ok {
			return nil, fmt.Errorf("%w: source index %d", ErrUnplacedNode, e.SourceIndex)
		}
		dst, ok := cellForNode[e.TargetIndex]
		if !ok {
			return nil, fmt.Errorf("%w: target index %d", ErrUnplacedNode, e.TargetIndex)
		}
		gr.cells[src].out = append(gr.cells[src].out, dst)
		gr.cells[dst].in = append(gr.cells[dst].in, src)
	}

	return gr, nil
}

// cellCount returns the fixed lattice capacity.
func (g *grid) cellCount() int { return len(g.cells) }

// activeCount returns the number of cells holding a node.
func (g *grid) activeCount() int { return len(g.active) }
