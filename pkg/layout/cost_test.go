package layout

import (
	"math"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// chainGrid builds the 2x2 lattice for three 40x40 nodes connected in a
// chain 0 -> 1 -> 2. Node 2 lands in cell 0, node 1 in cell 1, node 0 in
// cell 2; cell 3 stays empty.
func chainGrid(t *testing.T) *grid {
	t.Helper()
	edges := []mindmap.Edge{
		{SourceIndex: 0, TargetIndex: 1},
		{SourceIndex: 1, TargetIndex: 2},
	}
	g, err := buildGrid(squareNodes(3, 40), edges, 1, 10)
	if err != nil {
		t.Fatalf("buildGrid: %v", err)
	}
	if len(g.rows) != 2 || len(g.rows[0]) != 2 {
		t.Fatalf("lattice is %dx%d, want 2x2", len(g.rows), len(g.rows[0]))
	}
	return g
}

func TestDistance(t *testing.T) {
	g := chainGrid(t)

	// Cell centers sit on the zero-gap 50x75 pitch.
	cases := []struct {
		a, b int
		want float64
	}{
		{0, 1, 50},  // horizontal neighbors
		{0, 2, 75},  // vertical neighbors
		{0, 3, 125}, // diagonal
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := g.distance(c.a, c.b); got != c.want {
			t.Errorf("distance(%d, %d) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := g.distance(c.b, c.a); got != c.want {
			t.Errorf("distance(%d, %d) = %v, want %v", c.b, c.a, got, c.want)
		}
	}
}

func TestOutCostCountsEachEdgeOnce(t *testing.T) {
	g := chainGrid(t)

	// Edges run cell 2 -> 1 (nodes 0 -> 1) and cell 1 -> 0 (nodes 1 -> 2).
	var total float64
	for _, ci := range g.active {
		total += g.outCost(ci)
	}
	want := g.distance(2, 1) + g.distance(1, 0) // 125 + 50
	if total != want {
		t.Errorf("summed outCost = %v, want %v", total, want)
	}
	if got := g.totalCost(); got != want {
		t.Errorf("totalCost = %v, want %v", got, want)
	}
}

func TestCompoundCost(t *testing.T) {
	g := chainGrid(t)

	// The middle cell carries one incoming and one outgoing edge.
	want := g.distance(1, 2) + g.distance(1, 0)
	if got := g.compoundCost(1); got != want {
		t.Errorf("compoundCost(middle) = %v, want %v", got, want)
	}

	// End cells see their single edge from one side only.
	if got := g.outCost(2); got != g.distance(2, 1) {
		t.Errorf("outCost(head) = %v, want %v", got, g.distance(2, 1))
	}
	if got := g.outCost(0); got != 0 {
		t.Errorf("outCost(tail) = %v, want 0", got)
	}
}

func TestTotalCostNonNegative(t *testing.T) {
	g := chainGrid(t)
	if got := g.totalCost(); got < 0 || math.IsNaN(got) {
		t.Errorf("totalCost = %v", got)
	}
}
