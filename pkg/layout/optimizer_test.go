package layout

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// chainGraph builds a mind map of n 40x40 nodes connected in a chain
// 0 -> 1 -> ... -> n-1.
func chainGraph(t *testing.T, n int) *mindmap.Graph {
	t.Helper()
	g := mindmap.New()
	for i := 0; i < n; i++ {
		if _, err := g.AddNode(mindmap.Node{Index: i, Size: mindmap.Size{W: 40, H: 40}}); err != nil {
			t.Fatalf("AddNode(%d): %v", i, err)
		}
	}
	for i := 0; i < n-1; i++ {
		if err := g.AddEdge(mindmap.Edge{SourceIndex: i, TargetIndex: i + 1}); err != nil {
			t.Fatalf("AddEdge(%d): %v", i, err)
		}
	}
	return g
}

func runLayout(t *testing.T, g *mindmap.Graph, seed uint64) *Optimizer {
	t.Helper()
	o := New(g, WithSeed(seed))
	if err := o.Initialize(1, 10); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := o.Optimize(context.Background()); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if err := o.Extract(); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return o
}

func TestLayoutTwoConnectedNodes(t *testing.T) {
	g := chainGraph(t, 2)
	runLayout(t, g, 1)

	// Two nodes on a 1x2 lattice end up side by side, symmetric about the
	// origin.
	a, _ := g.Node(0)
	b, _ := g.Node(1)
	if a.Location.Y != 0 || b.Location.Y != 0 {
		t.Errorf("locations not on the horizontal axis: %+v, %+v", a.Location, b.Location)
	}
	if a.Location.X != -b.Location.X {
		t.Errorf("locations not symmetric: %+v, %+v", a.Location, b.Location)
	}
	if math.Abs(a.Location.X) != 30 {
		t.Errorf("|x| = %v, want 30", math.Abs(a.Location.X))
	}
}

func TestLayoutChainReachesOptimum(t *testing.T) {
	// Three chained nodes on a 2x2 lattice: the optimum keeps the middle
	// node adjacent to both ends, one edge horizontal (50) and one vertical
	// (75).
	g := chainGraph(t, 3)
	o := runLayout(t, g, 2)

	if got := o.Cost(); math.Abs(got-125) > 1e-9 {
		t.Errorf("final cost = %v, want 125", got)
	}
}

func TestLayoutDisconnectedNodesTerminates(t *testing.T) {
	// No edges means zero cost everywhere; the schedule must still cool
	// through and finish.
	g := mindmap.New()
	for i := 0; i < 4; i++ {
		if _, err := g.AddNode(mindmap.Node{Index: i, Size: mindmap.Size{W: 40, H: 40}}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	o := runLayout(t, g, 3)
	if got := o.Cost(); got != 0 {
		t.Errorf("cost = %v, want 0", got)
	}
}

func TestLayoutSingleNodeCentered(t *testing.T) {
	g := chainGraph(t, 1)
	runLayout(t, g, 4)

	n, _ := g.Node(0)
	if n.Location.X != 0 || n.Location.Y != 0 {
		t.Errorf("single node at %+v, want origin", n.Location)
	}
}

func TestLayoutEmptyGraph(t *testing.T) {
	g := mindmap.New()
	o := New(g, WithSeed(5))
	if err := o.Initialize(1, 10); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := o.Optimize(context.Background()); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if err := o.Extract(); err != nil {
		t.Fatalf("Extract: %v", err)
	}
}

func TestLayoutDeterministicPerSeed(t *testing.T) {
	run := func(seed uint64) []mindmap.Point {
		g := chainGraph(t, 6)
		runLayout(t, g, seed)
		var locs []mindmap.Point
		for _, n := range g.Nodes() {
			locs = append(locs, n.Location)
		}
		return locs
	}

	first, second := run(42), run(42)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("node %d placed at %+v then %+v with the same seed", i, first[i], second[i])
		}
	}
}

func TestLayoutNoOverlap(t *testing.T) {
	g := chainGraph(t, 6)
	runLayout(t, g, 6)

	// Distinct cells differ by at least one column (pitch 50+10) or one row
	// (pitch 75+10) after the extractor re-adds spacing.
	nodes := g.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			dx := math.Abs(nodes[i].Location.X - nodes[j].Location.X)
			dy := math.Abs(nodes[i].Location.Y - nodes[j].Location.Y)
			if dx < 60-1e-9 && dy < 85-1e-9 {
				t.Errorf("nodes %d and %d overlap: %+v vs %+v",
					nodes[i].Index, nodes[j].Index, nodes[i].Location, nodes[j].Location)
			}
		}
	}
}

func TestLayoutDenseChainOfSmallNodes(t *testing.T) {
	// Nine 40x40 nodes need more slots than the area estimate provides on
	// its own; the full run must still place and extract every node.
	g := chainGraph(t, 9)
	runLayout(t, g, 9)

	seen := make(map[mindmap.Point]int)
	for _, n := range g.Nodes() {
		if prev, dup := seen[n.Location]; dup {
			t.Errorf("nodes %d and %d share location %+v", prev, n.Index, n.Location)
		}
		seen[n.Location] = n.Index
	}
}

func TestOptimizeRequiresInitialize(t *testing.T) {
	o := New(chainGraph(t, 2))
	if err := o.Optimize(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Optimize err = %v, want ErrNotInitialized", err)
	}
	if err := o.Extract(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Extract err = %v, want ErrNotInitialized", err)
	}
}

func TestOptimizeCancellation(t *testing.T) {
	o := New(chainGraph(t, 3), WithSeed(7))
	if err := o.Initialize(1, 10); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := o.Optimize(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Optimize err = %v, want context.Canceled", err)
	}
}

type stubSource struct {
	nodes []*mindmap.Node
	edges []mindmap.Edge
}

func (s stubSource) Nodes() []*mindmap.Node { return s.nodes }
func (s stubSource) Edges() []mindmap.Edge  { return s.edges }

func TestInitializeRejectsDanglingEdge(t *testing.T) {
	src := stubSource{
		nodes: squareNodes(2, 40),
		edges: []mindmap.Edge{{SourceIndex: 0, TargetIndex: 42}},
	}
	o := New(src)
	if err := o.Initialize(1, 10); !errors.Is(err, ErrUnplacedNode) {
		t.Errorf("Initialize err = %v, want ErrUnplacedNode", err)
	}
}

func TestInitializeRejectsBadAspect(t *testing.T) {
	o := New(chainGraph(t, 2))
	if err := o.Initialize(0, 10); !errors.Is(err, ErrInvalidAspectRatio) {
		t.Errorf("Initialize err = %v, want ErrInvalidAspectRatio", err)
	}
}

func TestOptimizeImprovesCost(t *testing.T) {
	g := chainGraph(t, 8)
	o := New(g, WithSeed(8))
	if err := o.Initialize(1.6, 20); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	initial := o.Cost()
	if err := o.Optimize(context.Background()); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if o.Cost() > initial {
		t.Errorf("cost went up: %v -> %v", initial, o.Cost())
	}
	if o.Cost() < 0 {
		t.Errorf("negative cost %v", o.Cost())
	}
}
