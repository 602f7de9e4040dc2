package layout

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Source is the graph collaborator the optimizer reads from. It must expose
// a stable ordered node list and a directed edge list; [mindmap.Graph]
// satisfies it. The optimizer never mutates the lists, only the location of
// each node, once, during Extract.
type Source interface {
	Nodes() []*mindmap.Node
	Edges() []mindmap.Edge
}

// Optimizer runs the full build-optimize-extract cycle for one graph.
//
// An Optimizer is exclusively owned by one layout run: it is single-threaded,
// synchronous, and not safe for concurrent use. Callers wanting concurrency
// create one Optimizer per run.
type Optimizer struct {
	src    Source
	grid   *grid
	rng    *rand.Rand
	log    *log.Logger
	tuning Tuning
	cost   float64
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithSeed seeds the optimizer's random source, making the run reproducible.
func WithSeed(seed uint64) Option {
	return func(o *Optimizer) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	}
}

// WithRand supplies the random source directly. Useful in tests that need a
// recorded or shared sequence.
func WithRand(r *rand.Rand) Option {
	return func(o *Optimizer) { o.rng = r }
}

// WithLogger attaches a logger; without it the optimizer is silent.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) { o.log = l }
}

// WithTuning overrides the annealing schedule.
func WithTuning(t Tuning) Option {
	return func(o *Optimizer) { o.tuning = t }
}

// New creates an optimizer for the given graph. The graph is read during
// Initialize and written exactly once, during Extract.
func New(src Source, opts ...Option) *Optimizer {
	o := &Optimizer{
		src:    src,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:    log.NewWithOptions(io.Discard, log.Options{}),
		tuning: DefaultTuning,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Initialize builds the internal lattice from the current node and edge
// snapshot. It must be called before Optimize. aspectRatio is the desired
// width/height of the overall layout; minEdgeLength the spacing between
// neighboring nodes in the final coordinates.
func (o *Optimizer) Initialize(aspectRatio, minEdgeLength float64) error {
	nodes, edges := o.src.Nodes(), o.src.Edges()
	o.log.Info("initializing layout",
		"aspectRatio", aspectRatio, "minEdgeLength", minEdgeLength,
		"nodes", len(nodes), "edges", len(edges))

	g, err := buildGrid(nodes, edges, aspectRatio, minEdgeLength)
	if err != nil {
		return err
	}
	o.grid = g
	o.cost = g.totalCost()
	return nil
}

// Optimize runs the annealing procedure to completion. Graphs with fewer
// than two active cells are already optimal and return immediately. Calling
// Optimize again starts a fresh anneal over the current arrangement.
//
// The context is checked between batches, so a long run can be cancelled;
// no partial state is observable until Extract runs.
func (o *Optimizer) Optimize(ctx context.Context) error {
	if o.grid == nil {
		return ErrNotInitialized
	}
	if o.grid.activeCount() < 2 {
		return nil
	}

	cost, err := o.anneal(ctx)
	o.cost = cost
	return err
}

// Extract writes the final, origin-centered locations back onto the graph's
// nodes. This is the only point where the optimizer mutates node state.
func (o *Optimizer) Extract() error {
	if o.grid == nil {
		return ErrNotInitialized
	}
	o.grid.extract()
	return nil
}

// Cost returns the current aggregate connection cost of the lattice.
// Before Optimize it reflects the initial arrangement.
func (o *Optimizer) Cost() float64 { return o.cost }
