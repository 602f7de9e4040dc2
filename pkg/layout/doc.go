// Package layout places mind-map nodes on the 2D plane so that connected
// nodes end up close together.
//
// The engine discretizes the plane into a rectangular lattice sized from the
// aggregate node footprint, assigns every node to one lattice cell, and then
// runs a simulated-annealing search over pairwise cell swaps: moves are
// proposed at random, scored by the change in summed Manhattan edge length,
// and accepted with the Metropolis criterion while a temperature parameter
// cools geometrically. Convergence per temperature is detected by a plateau
// counter rather than a fixed iteration budget, so dense graphs get
// proportionally more moves than sparse ones.
//
// The entry point is [Optimizer]:
//
//	opt := layout.New(g, layout.WithSeed(42))
//	if err := opt.Initialize(1.6, 40); err != nil {
//	    return err
//	}
//	if err := opt.Optimize(ctx); err != nil {
//	    return err
//	}
//	opt.Extract() // writes final locations back onto the nodes
//
// The search is heuristic: it produces a good layout, not a provably optimal
// one, and every invocation performs a full build-optimize-extract cycle.
package layout
